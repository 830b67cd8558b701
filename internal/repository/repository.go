package repository

import (
	"context"

	"github.com/recipe-catalog-api/internal/database"
	"github.com/recipe-catalog-api/internal/models"
)

// RecipeWriter is the transaction-scoped write surface used by the import
// pipeline and the repair executor. Implementations guarantee that Insert and
// Update failures are row-scoped: a failed statement leaves the enclosing
// transaction usable for subsequent rows.
type RecipeWriter interface {
	Insert(ctx context.Context, recipe *models.Recipe) (int64, error)
	Update(ctx context.Context, recipe *models.Recipe) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	SetCategory(ctx context.Context, id int64, category string) error
	SetCategoryWhereInvalid(ctx context.Context, category string) (int64, error)
	DeleteUnsalvageable(ctx context.Context) (int64, error)
	InvalidCategoryRecipes(ctx context.Context) ([]models.IssueRow, error)
}

// RecipeRepository defines data operations over the recipes table
type RecipeRepository interface {
	RecipeWriter

	GetByID(ctx context.Context, id int64) (*models.Recipe, error)
	GetBySlug(ctx context.Context, slug string) (*models.Recipe, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Recipe, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	CountByCategory(ctx context.Context) (map[string]int, error)

	// TitleIndex returns a case-insensitive title -> id snapshot of every
	// persisted recipe, used for in-database duplicate detection.
	TitleIndex(ctx context.Context) (map[string]int64, error)

	// FindViolations returns every row breaking a schema invariant (category,
	// title, ingredients or instructions), for the repair scanner.
	FindViolations(ctx context.Context) ([]*models.Recipe, error)

	// InTx runs fn inside a single transaction: commit when fn returns nil,
	// full rollback otherwise.
	InTx(ctx context.Context, fn func(tx RecipeWriter) error) error

	StreamAll(ctx context.Context, callback func(*models.Recipe) error) error
}

// ImportRunRepository persists the report of each completed import
type ImportRunRepository interface {
	Create(ctx context.Context, run *models.ImportRun) error
	GetByID(ctx context.Context, id string) (*models.ImportRun, error)
	List(ctx context.Context, limit int) ([]*models.ImportRun, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Recipe    RecipeRepository
	ImportRun ImportRunRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Recipe:    NewRecipeRepo(db),
		ImportRun: NewImportRunRepo(db),
	}
}
