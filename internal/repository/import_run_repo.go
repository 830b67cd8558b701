package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/recipe-catalog-api/internal/database"
	"github.com/recipe-catalog-api/internal/models"
)

// importRunRepo is the concrete implementation of ImportRunRepository
type importRunRepo struct {
	db *database.DB
}

// NewImportRunRepo creates a new import run repository
func NewImportRunRepo(db *database.DB) ImportRunRepository {
	return &importRunRepo{db: db}
}

// Create persists the report of a completed import
func (r *importRunRepo) Create(ctx context.Context, run *models.ImportRun) error {
	errorsJSON, err := json.Marshal(run.Report.Errors)
	if err != nil {
		return err
	}
	duplicatesJSON, err := json.Marshal(run.Report.Duplicates)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO import_runs (id, filename, duplicate_policy, total, imported, updated,
			skipped, duplicates_found, duplicates_handled, errors, duplicates, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = r.db.ExecContext(ctx, query,
		run.ID, run.Filename, run.DuplicatePolicy,
		run.Report.Total, run.Report.Imported, run.Report.Updated, run.Report.Skipped,
		run.Report.DuplicatesFound, run.Report.DuplicatesHandled,
		errorsJSON, duplicatesJSON, run.CreatedAt,
	)
	return err
}

const importRunColumns = `id, filename, duplicate_policy, total, imported, updated, skipped,
	duplicates_found, duplicates_handled, errors, duplicates, created_at`

func scanImportRun(row interface{ Scan(...interface{}) error }) (*models.ImportRun, error) {
	var run models.ImportRun
	var errorsJSON, duplicatesJSON []byte

	err := row.Scan(
		&run.ID, &run.Filename, &run.DuplicatePolicy,
		&run.Report.Total, &run.Report.Imported, &run.Report.Updated, &run.Report.Skipped,
		&run.Report.DuplicatesFound, &run.Report.DuplicatesHandled,
		&errorsJSON, &duplicatesJSON, &run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	json.Unmarshal(errorsJSON, &run.Report.Errors)
	json.Unmarshal(duplicatesJSON, &run.Report.Duplicates)
	return &run, nil
}

// GetByID retrieves one import run
func (r *importRunRepo) GetByID(ctx context.Context, id string) (*models.ImportRun, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+importRunColumns+" FROM import_runs WHERE id = $1", id)
	run, err := scanImportRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return run, err
}

// List returns the most recent import runs
func (r *importRunRepo) List(ctx context.Context, limit int) ([]*models.ImportRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+importRunColumns+" FROM import_runs ORDER BY created_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*models.ImportRun
	for rows.Next() {
		run, err := scanImportRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
