package validation

import (
	"strconv"
	"strings"
	"time"

	"github.com/recipe-catalog-api/internal/models"
)

// Every normalizer in this file is total: it never returns an error and always
// produces a value that satisfies the schema. Category is the one exception to
// having a default: an out-of-set category is returned as ("", false) because
// guessing a category would misclassify the recipe; callers reject the row.

// Category lower-cases and trims the input and checks it against the closed
// category set. The second return is false when the value is absent or invalid.
func Category(s string) (string, bool) {
	c := strings.ToLower(strings.TrimSpace(s))
	if c == "" || !models.ValidCategories[c] {
		return "", false
	}
	return c, true
}

// Difficulty normalizes to Easy/Medium/Hard, defaulting to Medium.
func Difficulty(s string) string {
	d := strings.TrimSpace(s)
	if d == "" {
		return models.DefaultDifficulty
	}
	d = strings.ToUpper(d[:1]) + strings.ToLower(d[1:])
	if !models.ValidDifficulties[d] {
		return models.DefaultDifficulty
	}
	return d
}

// Rating clamps a rating into the [1.0, 5.0] range.
func Rating(v float64) float64 {
	if v < 1.0 {
		return 1.0
	}
	if v > 5.0 {
		return 5.0
	}
	return v
}

// ParseRating coerces a raw cell value to a clamped rating.
func ParseRating(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 1.0
	}
	return Rating(v)
}

// Status normalizes to published/draft/archived, defaulting to published.
func Status(s string) string {
	st := strings.ToLower(strings.TrimSpace(s))
	if !models.ValidStatuses[st] {
		return models.DefaultStatus
	}
	return st
}

// Featured interprets the usual truthy spellings found in exports.
func Featured(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "yes", "true", "on":
		return true
	}
	return false
}

// timestampFormats are tried in order when parsing flexible datetime input
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"2006/01/02",
}

// Timestamp parses a flexible datetime value, falling back to the current
// instant when the input is empty or unparseable.
func Timestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s != "" {
		for _, layout := range timestampFormats {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
	}
	return time.Now()
}

// PositiveInt coerces a raw cell value to an integer no smaller than min,
// returning def when the value is absent or not a number.
func PositiveInt(s string, def, min int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	if v < min {
		return min
	}
	return v
}

// Servings applies the servings-specific floor and default.
func Servings(s string) int {
	return PositiveInt(s, models.DefaultServings, 1)
}

// TitleKey normalizes a title for case-insensitive duplicate comparison.
func TitleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
