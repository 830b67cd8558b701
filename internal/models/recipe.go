package models

import (
	"time"
)

// Recipe represents a recipe in the catalog
type Recipe struct {
	ID                  int64     `json:"id" db:"id"`
	Title               string    `json:"title" db:"title"`
	Slug                string    `json:"slug" db:"slug"`
	Image               string    `json:"image,omitempty" db:"image"`
	VideoURL            string    `json:"video_url,omitempty" db:"video_url"`
	VideoFile           string    `json:"video_file,omitempty" db:"video_file"`
	VideoPath           string    `json:"video_path,omitempty" db:"video_path"`
	Description         string    `json:"description,omitempty" db:"description"`
	Ingredients         string    `json:"ingredients" db:"ingredients"`
	Instructions        string    `json:"instructions" db:"instructions"`
	Tags                string    `json:"tags,omitempty" db:"tags"`
	PrepTime            string    `json:"prep_time,omitempty" db:"prep_time"`
	CookTime            string    `json:"cook_time,omitempty" db:"cook_time"`
	CuisineType         string    `json:"cuisine_type,omitempty" db:"cuisine_type"`
	DietaryRestrictions string    `json:"dietary_restrictions,omitempty" db:"dietary_restrictions"`
	RecipeNotes         string    `json:"recipe_notes,omitempty" db:"recipe_notes"`
	Servings            int       `json:"servings" db:"servings"`
	Difficulty          string    `json:"difficulty" db:"difficulty"`
	Rating              float64   `json:"rating" db:"rating"`
	RatingCount         int       `json:"rating_count" db:"rating_count"`
	Category            string    `json:"category" db:"category"`
	Status              string    `json:"status" db:"status"`
	Views               int       `json:"views" db:"views"`
	Likes               int       `json:"likes" db:"likes"`
	AuthorID            *int64    `json:"author_id,omitempty" db:"author_id"`
	Featured            bool      `json:"featured" db:"featured"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// Categories is the closed set of recipe categories, any other value is invalid.
var Categories = []string{
	"appetizer",
	"breakfast",
	"lunch",
	"dinner",
	"dessert",
	"bread-bakes",
	"salads",
	"healthy",
	"beverages",
	"snacks",
}

// ValidCategories allows O(1) membership checks against the closed set
var ValidCategories = func() map[string]bool {
	m := make(map[string]bool, len(Categories))
	for _, c := range Categories {
		m[c] = true
	}
	return m
}()

// ValidStatuses defines allowed recipe statuses
var ValidStatuses = map[string]bool{
	"published": true,
	"draft":     true,
	"archived":  true,
}

// ValidDifficulties defines allowed difficulty levels (case-normalized)
var ValidDifficulties = map[string]bool{
	"Easy":   true,
	"Medium": true,
	"Hard":   true,
}

const (
	DefaultStatus     = "published"
	DefaultDifficulty = "Medium"
	DefaultServings   = 4
)

// ListFilter narrows catalog listings
type ListFilter struct {
	Category string
	Status   string
	Search   string
	Featured bool
	Limit    int
	Offset   int
}
