package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/recipe-catalog-api/internal/models"
	"github.com/recipe-catalog-api/internal/repository"
	"github.com/recipe-catalog-api/internal/validation"
	"github.com/rs/zerolog"
)

// repairService is the concrete implementation of RepairService
type repairService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newRepairService creates a new RepairService
func newRepairService(repos *repository.Repositories, log zerolog.Logger) *repairService {
	return &repairService{
		repos: repos,
		log:   log.With().Str("service", "repair").Logger(),
	}
}

// fallbackCategory is assigned when no keyword matches during auto-categorize
const fallbackCategory = "lunch"

// categoryKeywords is checked in order; the first entry whose keyword list
// contains a substring match in the lowercased title wins, regardless of
// where in the title the match sits. Table order is the tie-break.
var categoryKeywords = []struct {
	Category string
	Keywords []string
}{
	{"breakfast", []string{"pancake", "waffle", "omelet", "omelette", "scrambled", "bacon", "oatmeal", "porridge", "granola", "french toast", "frittata", "cereal", "hash brown"}},
	{"lunch", []string{"sandwich", "wrap", "burger", "stir-fry", "stir fry", "noodle", "quesadilla", "taco", "panini", "flatbread", "bowl"}},
	{"dinner", []string{"roast", "steak", "casserole", "curry", "lasagna", "pasta", "meatloaf", "pot pie", "risotto", "chili", "salmon", "brisket", "stew"}},
	{"dessert", []string{"cake", "cookie", "brownie", "chocolate", "pie", "pudding", "ice cream", "cheesecake", "tart", "fudge", "mousse", "custard"}},
	{"appetizer", []string{"dip", "bruschetta", "spring roll", "wings", "nachos", "deviled", "skewer", "crostini", "stuffed mushroom", "bites"}},
	{"beverages", []string{"smoothie", "juice", "latte", "coffee", "tea", "shake", "lemonade", "cocktail", "punch", "cocoa"}},
	{"snacks", []string{"popcorn", "trail mix", "energy ball", "chips", "crackers", "jerky", "granola bar", "pretzel", "roasted nuts"}},
	{"bread-bakes", []string{"bread", "loaf", "bagel", "biscuit", "scone", "focaccia", "sourdough", "brioche", "bun", "rolls"}},
	{"healthy", []string{"quinoa", "kale", "detox", "low-carb", "protein", "vegan", "avocado", "buddha", "lentil", "chia"}},
	{"salads", []string{"salad", "slaw", "coleslaw", "caesar", "vinaigrette", "tabbouleh", "caprese", "greens"}},
}

// categorizeTitle picks a category for a title by keyword match, falling back
// to fallbackCategory when nothing matches.
func categorizeTitle(title string) string {
	lower := strings.ToLower(title)
	for _, entry := range categoryKeywords {
		for _, keyword := range entry.Keywords {
			if strings.Contains(lower, keyword) {
				return entry.Category
			}
		}
	}
	return fallbackCategory
}

// ScanIssues classifies every schema-violating recipe into repair buckets.
// A row can land in several buckets at once; missing and invalid category are
// mutually exclusive for a given row. Read-only.
func (s *repairService) ScanIssues(ctx context.Context) (*models.RepairSummary, error) {
	total, err := s.repos.Recipe.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count recipes: %w", err)
	}

	violations, err := s.repos.Recipe.FindViolations(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan violations: %w", err)
	}

	summary := &models.RepairSummary{TotalRecipes: total}
	for _, r := range violations {
		row := models.IssueRow{ID: r.ID, Title: r.Title, Category: r.Category}

		if strings.TrimSpace(r.Category) == "" {
			summary.MissingCategory = append(summary.MissingCategory, row)
		} else if _, ok := validation.Category(r.Category); !ok {
			summary.InvalidCategory = append(summary.InvalidCategory, row)
		}
		if strings.TrimSpace(r.Title) == "" {
			summary.MissingTitle = append(summary.MissingTitle, row)
		}
		if strings.TrimSpace(r.Ingredients) == "" {
			summary.EmptyIngredients = append(summary.EmptyIngredients, row)
		}
		if strings.TrimSpace(r.Instructions) == "" {
			summary.EmptyInstructions = append(summary.EmptyInstructions, row)
		}
	}

	s.log.Info().
		Int("total", total).
		Int("violations", len(violations)).
		Msg("Repair scan completed")

	return summary, nil
}

// Execute dispatches a repair action. Each action runs in one transaction
// that either fully commits or fully rolls back.
func (s *repairService) Execute(ctx context.Context, req *models.RepairRequest) (*models.RepairResult, error) {
	switch req.Action {
	case models.RepairActionFixCategories:
		return s.fixCategories(ctx, req.Categories)
	case models.RepairActionBulkFix:
		switch req.BulkAction {
		case models.BulkFixAutoCategorize:
			return s.autoCategorize(ctx)
		case models.BulkFixSetDefaultCategory:
			return s.setDefaultCategory(ctx, req.DefaultCategory)
		case models.BulkFixDeleteInvalid:
			return s.deleteInvalid(ctx)
		default:
			return nil, fmt.Errorf("%w: unknown bulk action %q", ErrInvalidInput, req.BulkAction)
		}
	default:
		return nil, fmt.Errorf("%w: unknown repair action %q", ErrInvalidInput, req.Action)
	}
}

// fixCategories applies caller-chosen categories per recipe id. Entries with
// the "skip" sentinel are left untouched.
func (s *repairService) fixCategories(ctx context.Context, assignments map[int64]string) (*models.RepairResult, error) {
	if len(assignments) == 0 {
		return nil, fmt.Errorf("%w: no category assignments provided", ErrInvalidInput)
	}

	// Validate everything before touching the database so a bad entry cannot
	// leave a half-applied fix behind.
	targets := make(map[int64]string, len(assignments))
	for id, raw := range assignments {
		if strings.EqualFold(strings.TrimSpace(raw), "skip") {
			continue
		}
		category, ok := validation.Category(raw)
		if !ok {
			return nil, fmt.Errorf("%w: invalid category %q for recipe %d", ErrInvalidInput, raw, id)
		}
		targets[id] = category
	}

	fixed := 0
	err := s.repos.Recipe.InTx(ctx, func(tx repository.RecipeWriter) error {
		for id, category := range targets {
			if err := tx.SetCategory(ctx, id, category); err != nil {
				return err
			}
			fixed++
		}
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Msg("Manual category fix rolled back")
		return nil, fmt.Errorf("category fix failed: %w", err)
	}

	s.log.Info().Int("fixed", fixed).Msg("Manual category fix applied")
	return &models.RepairResult{Action: models.RepairActionFixCategories, Fixed: fixed}, nil
}

// autoCategorize assigns a keyword-derived category to every recipe failing
// the category invariant.
func (s *repairService) autoCategorize(ctx context.Context) (*models.RepairResult, error) {
	fixed := 0
	err := s.repos.Recipe.InTx(ctx, func(tx repository.RecipeWriter) error {
		rows, err := tx.InvalidCategoryRecipes(ctx)
		if err != nil {
			return err
		}
		for _, row := range rows {
			if err := tx.SetCategory(ctx, row.ID, categorizeTitle(row.Title)); err != nil {
				return err
			}
			fixed++
		}
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Msg("Auto-categorize rolled back")
		return nil, fmt.Errorf("auto-categorize failed: %w", err)
	}

	s.log.Info().Int("fixed", fixed).Msg("Auto-categorize applied")
	return &models.RepairResult{Action: models.BulkFixAutoCategorize, Fixed: fixed}, nil
}

// setDefaultCategory bulk-assigns one closed-set category to every recipe
// failing the category invariant.
func (s *repairService) setDefaultCategory(ctx context.Context, raw string) (*models.RepairResult, error) {
	category, ok := validation.Category(raw)
	if !ok {
		return nil, fmt.Errorf("%w: invalid default category %q", ErrInvalidInput, raw)
	}

	var fixed int64
	err := s.repos.Recipe.InTx(ctx, func(tx repository.RecipeWriter) error {
		n, err := tx.SetCategoryWhereInvalid(ctx, category)
		if err != nil {
			return err
		}
		fixed = n
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Msg("Default-category fix rolled back")
		return nil, fmt.Errorf("default-category fix failed: %w", err)
	}

	s.log.Info().Int64("fixed", fixed).Str("category", category).Msg("Default category applied")
	return &models.RepairResult{Action: models.BulkFixSetDefaultCategory, Fixed: int(fixed)}, nil
}

// deleteInvalid purges recipes that fail the category invariant AND have
// empty ingredients or instructions. Rows with an invalid category but
// complete content are kept.
func (s *repairService) deleteInvalid(ctx context.Context) (*models.RepairResult, error) {
	var deleted int64
	err := s.repos.Recipe.InTx(ctx, func(tx repository.RecipeWriter) error {
		n, err := tx.DeleteUnsalvageable(ctx)
		if err != nil {
			return err
		}
		deleted = n
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Msg("Delete-invalid rolled back")
		return nil, fmt.Errorf("delete-invalid failed: %w", err)
	}

	s.log.Info().Int64("deleted", deleted).Msg("Unsalvageable recipes deleted")
	return &models.RepairResult{Action: models.BulkFixDeleteInvalid, Deleted: int(deleted)}, nil
}
