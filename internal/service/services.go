package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/recipe-catalog-api/internal/config"
	"github.com/recipe-catalog-api/internal/models"
	"github.com/recipe-catalog-api/internal/repository"
	"github.com/rs/zerolog"
)

// Sentinel errors handlers map onto HTTP statuses. Everything else is an
// internal failure whose details stay in the logs.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// ImportService runs the CSV import pipeline and serves import history
type ImportService interface {
	ImportCSV(ctx context.Context, filePath, filename string, policy models.DuplicatePolicy) (*models.ImportRun, error)
	GetRun(ctx context.Context, id string) (*models.ImportRun, error)
	ListRuns(ctx context.Context, limit int) ([]*models.ImportRun, error)
}

// RepairService scans for and fixes schema-violating recipes
type RepairService interface {
	ScanIssues(ctx context.Context) (*models.RepairSummary, error)
	Execute(ctx context.Context, req *models.RepairRequest) (*models.RepairResult, error)
}

// CatalogService covers recipe browsing and CRUD
type CatalogService interface {
	List(ctx context.Context, filter models.ListFilter) ([]*models.Recipe, error)
	GetBySlug(ctx context.Context, slug string) (*models.Recipe, error)
	Create(ctx context.Context, recipe *models.Recipe) error
	Update(ctx context.Context, id int64, recipe *models.Recipe) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	CountByCategory(ctx context.Context) (map[string]int, error)
}

// ExportService streams the catalog in re-importable formats
type ExportService interface {
	StreamRecipes(ctx context.Context, w http.ResponseWriter, format string) error
}

// Services holds all service interfaces
type Services struct {
	Import  ImportService
	Repair  RepairService
	Catalog CatalogService
	Export  ExportService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	return &Services{
		Import:  newImportService(repos, cfg, log),
		Repair:  newRepairService(repos, log),
		Catalog: newCatalogService(repos, log),
		Export:  newExportService(repos, log),
	}
}
