package models

import (
	"time"
)

// DuplicatePolicy selects how in-database duplicates are resolved during import
type DuplicatePolicy string

const (
	PolicySkip   DuplicatePolicy = "skip"
	PolicyUpdate DuplicatePolicy = "update"
)

// NormalizePolicy maps arbitrary caller input onto a supported policy.
// Anything other than an explicit "update" falls back to skip.
func NormalizePolicy(s string) DuplicatePolicy {
	if DuplicatePolicy(s) == PolicyUpdate {
		return PolicyUpdate
	}
	return PolicySkip
}

// Duplicate kinds reported by the import pipeline
const (
	DuplicateWithinCSV  = "within_csv"
	DuplicateInDatabase = "in_database"
)

// DuplicateEntry describes one duplicate found during an import run
type DuplicateEntry struct {
	Type       string `json:"type"` // within_csv or in_database
	Title      string `json:"title"`
	Row        int    `json:"row"`
	FirstRow   int    `json:"first_row,omitempty"`    // within_csv: row of the kept occurrence
	ExistingID int64  `json:"existing_id,omitempty"`  // in_database: id of the persisted match
	Action     string `json:"action"`                 // skipped or updated
}

// ImportReport is the structured result of one import run
type ImportReport struct {
	Total             int              `json:"total"`
	Imported          int              `json:"imported"`
	Updated           int              `json:"updated"`
	Skipped           int              `json:"skipped"`
	DuplicatesFound   int              `json:"duplicates_found"`
	DuplicatesHandled int              `json:"duplicates_handled"`
	Errors            []string         `json:"errors"`
	Duplicates        []DuplicateEntry `json:"duplicates"`
}

// ImportRun is the persisted record of a completed import
type ImportRun struct {
	ID              string       `json:"id" db:"id"`
	Filename        string       `json:"filename" db:"filename"`
	DuplicatePolicy string       `json:"duplicate_policy" db:"duplicate_policy"`
	Report          ImportReport `json:"report"`
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
}

// Repair issue buckets produced by the scanner
const (
	IssueMissingCategory   = "missing_category"
	IssueInvalidCategory   = "invalid_category"
	IssueMissingTitle      = "missing_title"
	IssueEmptyIngredients  = "empty_ingredients"
	IssueEmptyInstructions = "empty_instructions"
)

// IssueRow identifies a recipe violating one or more schema invariants
type IssueRow struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

// RepairSummary is the read-only result of a repair scan
type RepairSummary struct {
	TotalRecipes      int        `json:"total_recipes"`
	MissingCategory   []IssueRow `json:"missing_category"`
	InvalidCategory   []IssueRow `json:"invalid_category"`
	MissingTitle      []IssueRow `json:"missing_title"`
	EmptyIngredients  []IssueRow `json:"empty_ingredients"`
	EmptyInstructions []IssueRow `json:"empty_instructions"`
}

// Counts returns the per-bucket sizes for the summary payload
func (s *RepairSummary) Counts() map[string]int {
	return map[string]int{
		IssueMissingCategory:   len(s.MissingCategory),
		IssueInvalidCategory:   len(s.InvalidCategory),
		IssueMissingTitle:      len(s.MissingTitle),
		IssueEmptyIngredients:  len(s.EmptyIngredients),
		IssueEmptyInstructions: len(s.EmptyInstructions),
	}
}

// Repair action discriminators
const (
	RepairActionScan          = "scan_issues"
	RepairActionFixCategories = "fix_categories"
	RepairActionBulkFix       = "bulk_fix"

	BulkFixAutoCategorize     = "auto_categorize"
	BulkFixSetDefaultCategory = "set_default_category"
	BulkFixDeleteInvalid      = "delete_invalid"
)

// RepairRequest selects and parameterizes a repair action
type RepairRequest struct {
	Action          string           `json:"action"`
	Categories      map[int64]string `json:"categories,omitempty"`       // fix_categories: id -> category or "skip"
	BulkAction      string           `json:"bulk_action,omitempty"`      // bulk_fix sub-discriminator
	DefaultCategory string           `json:"default_category,omitempty"` // set_default_category target
}

// RepairResult reports how many rows a repair action touched
type RepairResult struct {
	Action  string `json:"action"`
	Fixed   int    `json:"fixed,omitempty"`
	Deleted int    `json:"deleted,omitempty"`
}
