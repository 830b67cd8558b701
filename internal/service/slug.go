package service

import (
	"context"
	"fmt"

	"github.com/gosimple/slug"
)

// slugChecker is the one storage capability slug generation needs
type slugChecker interface {
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
}

// ensureUniqueSlug derives a URL-safe slug from the title and suffixes it
// with -1, -2, ... until no other recipe holds it. excludeID keeps a record
// from colliding with its own slug on update; pass 0 for inserts.
func ensureUniqueSlug(ctx context.Context, q slugChecker, title string, excludeID int64) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "recipe"
	}

	candidate := base
	for i := 1; ; i++ {
		exists, err := q.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
