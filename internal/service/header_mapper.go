package service

import (
	"fmt"
	"sort"
	"strings"
)

// recognizedHeaders is the fixed vocabulary of importable CSV columns. Any
// other column is dropped silently rather than rejected, so exports from
// other tools can be fed in without trimming first.
var recognizedHeaders = map[string]bool{
	"id":           true,
	"title":        true,
	"slug":         true,
	"image":        true,
	"video_url":    true,
	"video_file":   true,
	"video_path":   true,
	"description":  true,
	"ingredients":  true,
	"instructions": true,
	"tags":         true,
	"prep_time":    true,
	"cook_time":    true,
	"servings":     true,
	"difficulty":   true,
	"rating":       true,
	"rating_count": true,
	"category":     true,
	"status":       true,
	"views":        true,
	"likes":        true,
	"author_id":    true,
	"featured":     true,
	"created_at":   true,
	"updated_at":   true,
}

// cleanCell strips a UTF-8 BOM and surrounding quote, backtick and space
// characters. Headers and data cells get the same treatment.
func cleanCell(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.Trim(s, "\"'` \t")
}

// MapHeaders maps CSV column index -> canonical field name for every
// recognized header. An empty result fails the whole import before any data
// row is read.
func MapHeaders(header []string) (map[int]string, error) {
	mapping := make(map[int]string)
	for i, h := range header {
		name := strings.ToLower(cleanCell(h))
		if recognizedHeaders[name] {
			mapping[i] = name
		}
	}
	if len(mapping) == 0 {
		return nil, fmt.Errorf("%w: no recognized columns in header row, expected one of: %s",
			ErrInvalidInput, strings.Join(headerVocabulary(), ", "))
	}
	return mapping, nil
}

func headerVocabulary() []string {
	names := make([]string, 0, len(recognizedHeaders))
	for name := range recognizedHeaders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
