package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/recipe-catalog-api/internal/database"
	"github.com/recipe-catalog-api/internal/models"
)

// querier abstracts *sql.DB and *sql.Tx so the same SQL serves both paths
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

const recipeColumns = `id, title, slug, image, video_url, video_file, video_path, description,
	ingredients, instructions, tags, prep_time, cook_time, cuisine_type, dietary_restrictions,
	recipe_notes, servings, difficulty, rating, rating_count, category, status, views, likes,
	author_id, featured, created_at, updated_at`

// invalidCategoryCond matches rows failing the closed-set category invariant.
// The placeholder is bound to pq.Array(models.Categories).
func invalidCategoryCond(arg string) string {
	return fmt.Sprintf("(category IS NULL OR category = '' OR category <> ALL(%s))", arg)
}

// recipeRepo is the concrete implementation of RecipeRepository
type recipeRepo struct {
	db *database.DB
}

// NewRecipeRepo creates a new recipe repository
func NewRecipeRepo(db *database.DB) RecipeRepository {
	return &recipeRepo{db: db}
}

func scanRecipe(row interface{ Scan(...interface{}) error }) (*models.Recipe, error) {
	var r models.Recipe
	var category sql.NullString
	var authorID sql.NullInt64

	err := row.Scan(
		&r.ID, &r.Title, &r.Slug, &r.Image, &r.VideoURL, &r.VideoFile, &r.VideoPath,
		&r.Description, &r.Ingredients, &r.Instructions, &r.Tags, &r.PrepTime, &r.CookTime,
		&r.CuisineType, &r.DietaryRestrictions, &r.RecipeNotes, &r.Servings, &r.Difficulty,
		&r.Rating, &r.RatingCount, &category, &r.Status, &r.Views, &r.Likes,
		&authorID, &r.Featured, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Category = category.String
	if authorID.Valid {
		r.AuthorID = &authorID.Int64
	}
	return &r, nil
}

func insertRecipe(ctx context.Context, q querier, r *models.Recipe) (int64, error) {
	query := `
		INSERT INTO recipes (title, slug, image, video_url, video_file, video_path, description,
			ingredients, instructions, tags, prep_time, cook_time, cuisine_type,
			dietary_restrictions, recipe_notes, servings, difficulty, rating, rating_count,
			category, status, views, likes, author_id, featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23, $24, $25, $26, $27)
		RETURNING id
	`
	var id int64
	err := q.QueryRowContext(ctx, query,
		r.Title, r.Slug, r.Image, r.VideoURL, r.VideoFile, r.VideoPath, r.Description,
		r.Ingredients, r.Instructions, r.Tags, r.PrepTime, r.CookTime, r.CuisineType,
		r.DietaryRestrictions, r.RecipeNotes, r.Servings, r.Difficulty, r.Rating, r.RatingCount,
		r.Category, r.Status, r.Views, r.Likes, r.AuthorID, r.Featured,
		r.CreatedAt, time.Now(),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	r.ID = id
	return id, nil
}

func updateRecipe(ctx context.Context, q querier, r *models.Recipe) error {
	query := `
		UPDATE recipes
		SET title = $1, slug = $2, image = $3, video_url = $4, video_file = $5, video_path = $6,
			description = $7, ingredients = $8, instructions = $9, tags = $10, prep_time = $11,
			cook_time = $12, cuisine_type = $13, dietary_restrictions = $14, recipe_notes = $15,
			servings = $16, difficulty = $17, rating = $18, rating_count = $19, category = $20,
			status = $21, views = $22, likes = $23, author_id = $24, featured = $25,
			updated_at = $26
		WHERE id = $27
	`
	_, err := q.ExecContext(ctx, query,
		r.Title, r.Slug, r.Image, r.VideoURL, r.VideoFile, r.VideoPath, r.Description,
		r.Ingredients, r.Instructions, r.Tags, r.PrepTime, r.CookTime, r.CuisineType,
		r.DietaryRestrictions, r.RecipeNotes, r.Servings, r.Difficulty, r.Rating, r.RatingCount,
		r.Category, r.Status, r.Views, r.Likes, r.AuthorID, r.Featured,
		time.Now(), r.ID,
	)
	return err
}

func existsByID(ctx context.Context, q querier, id int64) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM recipes WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

func slugExists(ctx context.Context, q querier, slug string, excludeID int64) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM recipes WHERE slug = $1 AND id <> $2)",
		slug, excludeID,
	).Scan(&exists)
	return exists, err
}

func setCategory(ctx context.Context, q querier, id int64, category string) error {
	_, err := q.ExecContext(ctx,
		"UPDATE recipes SET category = $1, updated_at = $2 WHERE id = $3",
		category, time.Now(), id,
	)
	return err
}

func setCategoryWhereInvalid(ctx context.Context, q querier, category string) (int64, error) {
	query := "UPDATE recipes SET category = $1, updated_at = $2 WHERE " + invalidCategoryCond("$3")
	res, err := q.ExecContext(ctx, query, category, time.Now(), pq.Array(models.Categories))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func deleteUnsalvageable(ctx context.Context, q querier) (int64, error) {
	// Conservative by policy: only rows broken on multiple fronts are purged.
	// An invalid category alone never deletes a recipe with real content.
	query := "DELETE FROM recipes WHERE " + invalidCategoryCond("$1") +
		" AND (COALESCE(ingredients, '') = '' OR COALESCE(instructions, '') = '')"
	res, err := q.ExecContext(ctx, query, pq.Array(models.Categories))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func invalidCategoryRecipes(ctx context.Context, q querier) ([]models.IssueRow, error) {
	query := "SELECT id, title, COALESCE(category, '') FROM recipes WHERE " +
		invalidCategoryCond("$1") + " ORDER BY id"
	rows, err := q.QueryContext(ctx, query, pq.Array(models.Categories))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var issues []models.IssueRow
	for rows.Next() {
		var row models.IssueRow
		if err := rows.Scan(&row.ID, &row.Title, &row.Category); err != nil {
			return nil, err
		}
		issues = append(issues, row)
	}
	return issues, rows.Err()
}

func (r *recipeRepo) Insert(ctx context.Context, recipe *models.Recipe) (int64, error) {
	return insertRecipe(ctx, r.db, recipe)
}

func (r *recipeRepo) Update(ctx context.Context, recipe *models.Recipe) error {
	return updateRecipe(ctx, r.db, recipe)
}

func (r *recipeRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return existsByID(ctx, r.db, id)
}

func (r *recipeRepo) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	return slugExists(ctx, r.db, slug, excludeID)
}

func (r *recipeRepo) SetCategory(ctx context.Context, id int64, category string) error {
	return setCategory(ctx, r.db, id, category)
}

func (r *recipeRepo) SetCategoryWhereInvalid(ctx context.Context, category string) (int64, error) {
	return setCategoryWhereInvalid(ctx, r.db, category)
}

func (r *recipeRepo) DeleteUnsalvageable(ctx context.Context) (int64, error) {
	return deleteUnsalvageable(ctx, r.db)
}

func (r *recipeRepo) InvalidCategoryRecipes(ctx context.Context) ([]models.IssueRow, error) {
	return invalidCategoryRecipes(ctx, r.db)
}

// GetByID retrieves a recipe by its numeric id
func (r *recipeRepo) GetByID(ctx context.Context, id int64) (*models.Recipe, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+recipeColumns+" FROM recipes WHERE id = $1", id)
	recipe, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return recipe, err
}

// GetBySlug retrieves a recipe by its slug
func (r *recipeRepo) GetBySlug(ctx context.Context, slug string) (*models.Recipe, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+recipeColumns+" FROM recipes WHERE slug = $1", slug)
	recipe, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return recipe, err
}

// List retrieves recipes matching the filter, newest first
func (r *recipeRepo) List(ctx context.Context, filter models.ListFilter) ([]*models.Recipe, error) {
	var conds []string
	var args []interface{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		conds = append(conds, fmt.Sprintf("LOWER(title) LIKE $%d", len(args)))
	}
	if filter.Featured {
		conds = append(conds, "featured = TRUE")
	}

	query := "SELECT " + recipeColumns + " FROM recipes"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []*models.Recipe
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, recipe)
	}
	return recipes, rows.Err()
}

// Delete removes a recipe by id
func (r *recipeRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM recipes WHERE id = $1", id)
	return err
}

// Count returns the total number of recipes
func (r *recipeRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM recipes").Scan(&count)
	return count, err
}

// CountByCategory returns recipe counts grouped by category
func (r *recipeRepo) CountByCategory(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT COALESCE(category, ''), COUNT(*) FROM recipes GROUP BY category")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		counts[category] = count
	}
	return counts, rows.Err()
}

// TitleIndex builds the case-insensitive title -> id duplicate-detection snapshot
func (r *recipeRepo) TitleIndex(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, LOWER(TRIM(title)) FROM recipes")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	index := make(map[string]int64)
	for rows.Next() {
		var id int64
		var title string
		if err := rows.Scan(&id, &title); err != nil {
			return nil, err
		}
		index[title] = id
	}
	return index, rows.Err()
}

// FindViolations returns every recipe breaking a schema invariant, in one query
func (r *recipeRepo) FindViolations(ctx context.Context) ([]*models.Recipe, error) {
	query := "SELECT " + recipeColumns + " FROM recipes WHERE " + invalidCategoryCond("$1") +
		" OR COALESCE(title, '') = ''" +
		" OR COALESCE(ingredients, '') = ''" +
		" OR COALESCE(instructions, '') = ''" +
		" ORDER BY id"
	rows, err := r.db.QueryContext(ctx, query, pq.Array(models.Categories))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []*models.Recipe
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, recipe)
	}
	return recipes, rows.Err()
}

// InTx runs fn inside one transaction, committing only when fn returns nil
func (r *recipeRepo) InTx(ctx context.Context, fn func(tx RecipeWriter) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	writer := &recipeTx{tx: tx}
	if err := fn(writer); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// StreamAll streams every recipe for export, oldest first
func (r *recipeRepo) StreamAll(ctx context.Context, callback func(*models.Recipe) error) error {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+recipeColumns+" FROM recipes ORDER BY created_at")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return err
		}
		if err := callback(recipe); err != nil {
			return err
		}
	}
	return rows.Err()
}

// recipeTx is the transaction-scoped writer. Insert and Update run under a
// savepoint so a failed row statement does not poison the transaction for the
// rows that follow.
type recipeTx struct {
	tx *sql.Tx
	n  int
}

func (t *recipeTx) withSavepoint(ctx context.Context, fn func() error) error {
	t.n++
	name := fmt.Sprintf("row_%d", t.n)

	if _, err := t.tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return err
	}
	if err := fn(); err != nil {
		t.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name)
		return err
	}
	_, err := t.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name)
	return err
}

func (t *recipeTx) Insert(ctx context.Context, recipe *models.Recipe) (int64, error) {
	var id int64
	err := t.withSavepoint(ctx, func() error {
		var err error
		id, err = insertRecipe(ctx, t.tx, recipe)
		return err
	})
	return id, err
}

func (t *recipeTx) Update(ctx context.Context, recipe *models.Recipe) error {
	return t.withSavepoint(ctx, func() error {
		return updateRecipe(ctx, t.tx, recipe)
	})
}

func (t *recipeTx) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return existsByID(ctx, t.tx, id)
}

func (t *recipeTx) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	return slugExists(ctx, t.tx, slug, excludeID)
}

func (t *recipeTx) SetCategory(ctx context.Context, id int64, category string) error {
	return setCategory(ctx, t.tx, id, category)
}

func (t *recipeTx) SetCategoryWhereInvalid(ctx context.Context, category string) (int64, error) {
	return setCategoryWhereInvalid(ctx, t.tx, category)
}

func (t *recipeTx) DeleteUnsalvageable(ctx context.Context) (int64, error) {
	return deleteUnsalvageable(ctx, t.tx)
}

func (t *recipeTx) InvalidCategoryRecipes(ctx context.Context) ([]models.IssueRow, error) {
	return invalidCategoryRecipes(ctx, t.tx)
}
