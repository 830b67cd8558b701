package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/recipe-catalog-api/internal/models"
	"github.com/recipe-catalog-api/internal/repository"
	"github.com/recipe-catalog-api/internal/validation"
	"github.com/rs/zerolog"
)

// catalogService is the concrete implementation of CatalogService
type catalogService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newCatalogService creates a new CatalogService
func newCatalogService(repos *repository.Repositories, log zerolog.Logger) *catalogService {
	return &catalogService{
		repos: repos,
		log:   log.With().Str("service", "catalog").Logger(),
	}
}

// List returns recipes matching the filter
func (s *catalogService) List(ctx context.Context, filter models.ListFilter) ([]*models.Recipe, error) {
	if filter.Category != "" {
		category, ok := validation.Category(filter.Category)
		if !ok {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, filter.Category)
		}
		filter.Category = category
	}
	if filter.Status != "" {
		filter.Status = validation.Status(filter.Status)
	}
	return s.repos.Recipe.List(ctx, filter)
}

// GetBySlug retrieves one recipe by slug
func (s *catalogService) GetBySlug(ctx context.Context, slug string) (*models.Recipe, error) {
	recipe, err := s.repos.Recipe.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, ErrNotFound
	}
	return recipe, nil
}

// Create validates and persists a new recipe. Submissions without an explicit
// status enter as drafts pending review.
func (s *catalogService) Create(ctx context.Context, recipe *models.Recipe) error {
	recipe.Title = strings.TrimSpace(recipe.Title)
	if recipe.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	category, ok := validation.Category(recipe.Category)
	if !ok {
		return fmt.Errorf("%w: invalid category %q", ErrInvalidInput, recipe.Category)
	}
	recipe.Category = category

	if strings.TrimSpace(recipe.Status) == "" {
		recipe.Status = "draft"
	} else {
		recipe.Status = validation.Status(recipe.Status)
	}
	recipe.Difficulty = validation.Difficulty(recipe.Difficulty)
	recipe.Rating = validation.Rating(recipe.Rating)
	if recipe.Servings < 1 {
		recipe.Servings = models.DefaultServings
	}
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = time.Now()
	}

	if recipe.Slug == "" {
		generated, err := ensureUniqueSlug(ctx, s.repos.Recipe, recipe.Title, 0)
		if err != nil {
			return fmt.Errorf("generate slug: %w", err)
		}
		recipe.Slug = generated
	}

	if _, err := s.repos.Recipe.Insert(ctx, recipe); err != nil {
		return fmt.Errorf("insert recipe: %w", err)
	}

	s.log.Info().Int64("id", recipe.ID).Str("slug", recipe.Slug).Msg("Recipe created")
	return nil
}

// Update validates and persists changes to an existing recipe. The slug is
// regenerated (excluding the recipe's own id) only when the title changed and
// no slug was supplied.
func (s *catalogService) Update(ctx context.Context, id int64, recipe *models.Recipe) error {
	existing, err := s.repos.Recipe.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}

	recipe.ID = id
	recipe.Title = strings.TrimSpace(recipe.Title)
	if recipe.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	category, ok := validation.Category(recipe.Category)
	if !ok {
		return fmt.Errorf("%w: invalid category %q", ErrInvalidInput, recipe.Category)
	}
	recipe.Category = category
	recipe.Status = validation.Status(recipe.Status)
	recipe.Difficulty = validation.Difficulty(recipe.Difficulty)
	recipe.Rating = validation.Rating(recipe.Rating)
	if recipe.Servings < 1 {
		recipe.Servings = models.DefaultServings
	}
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = existing.CreatedAt
	}

	if recipe.Slug == "" {
		if recipe.Title == existing.Title {
			recipe.Slug = existing.Slug
		} else {
			generated, err := ensureUniqueSlug(ctx, s.repos.Recipe, recipe.Title, id)
			if err != nil {
				return fmt.Errorf("generate slug: %w", err)
			}
			recipe.Slug = generated
		}
	}

	if err := s.repos.Recipe.Update(ctx, recipe); err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}

	s.log.Info().Int64("id", id).Str("slug", recipe.Slug).Msg("Recipe updated")
	return nil
}

// Delete removes a recipe permanently
func (s *catalogService) Delete(ctx context.Context, id int64) error {
	existing, err := s.repos.Recipe.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	if err := s.repos.Recipe.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	s.log.Info().Int64("id", id).Msg("Recipe deleted")
	return nil
}

// Count returns the total number of recipes
func (s *catalogService) Count(ctx context.Context) (int, error) {
	return s.repos.Recipe.Count(ctx)
}

// CountByCategory returns per-category recipe counts
func (s *catalogService) CountByCategory(ctx context.Context) (map[string]int, error) {
	return s.repos.Recipe.CountByCategory(ctx)
}
