package service

import (
	"context"
	"errors"
	"testing"

	"github.com/recipe-catalog-api/internal/mocks"
	"github.com/recipe-catalog-api/internal/models"
	"github.com/recipe-catalog-api/internal/repository"
	"github.com/rs/zerolog"
)

func newTestCatalogService(recipes *mocks.MockRecipeRepository) *catalogService {
	repos := &repository.Repositories{Recipe: recipes, ImportRun: mocks.NewMockImportRunRepository()}
	return newCatalogService(repos, zerolog.Nop())
}

func TestCatalogCreateDefaults(t *testing.T) {
	recipes := mocks.NewMockRecipeRepository()
	svc := newTestCatalogService(recipes)

	recipe := &models.Recipe{
		Title:    "Weeknight Chili",
		Category: "Dinner",
		Rating:   7.5,
	}
	if err := svc.Create(context.Background(), recipe); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if recipe.Status != "draft" {
		t.Errorf("status = %q, submissions without a status must start as drafts", recipe.Status)
	}
	if recipe.Category != "dinner" {
		t.Errorf("category = %q, want normalized dinner", recipe.Category)
	}
	if recipe.Slug != "weeknight-chili" {
		t.Errorf("slug = %q", recipe.Slug)
	}
	if recipe.Difficulty != models.DefaultDifficulty {
		t.Errorf("difficulty = %q, want %q", recipe.Difficulty, models.DefaultDifficulty)
	}
	if recipe.Rating != 5.0 {
		t.Errorf("rating = %v, want clamped 5.0", recipe.Rating)
	}
	if recipe.Servings != models.DefaultServings {
		t.Errorf("servings = %d, want %d", recipe.Servings, models.DefaultServings)
	}
	if recipe.CreatedAt.IsZero() {
		t.Error("created_at should be stamped")
	}
}

func TestCatalogCreateValidation(t *testing.T) {
	svc := newTestCatalogService(mocks.NewMockRecipeRepository())

	if err := svc.Create(context.Background(), &models.Recipe{Category: "dinner"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("missing title: want ErrInvalidInput, got %v", err)
	}
	if err := svc.Create(context.Background(), &models.Recipe{Title: "X", Category: "brunch"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("invalid category: want ErrInvalidInput, got %v", err)
	}
}

func TestCatalogCreateKeepsExplicitStatus(t *testing.T) {
	svc := newTestCatalogService(mocks.NewMockRecipeRepository())

	recipe := &models.Recipe{Title: "X", Category: "dinner", Status: "Published"}
	if err := svc.Create(context.Background(), recipe); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if recipe.Status != "published" {
		t.Errorf("status = %q, want published", recipe.Status)
	}
}

func TestCatalogUpdateSlugRules(t *testing.T) {
	recipes := mocks.NewMockRecipeRepository()
	existing := recipes.Seed(&models.Recipe{
		Title: "Tomato Soup", Slug: "tomato-soup", Category: "dinner", Status: "published",
	})
	svc := newTestCatalogService(recipes)

	// Same title, no slug supplied: the existing slug survives.
	err := svc.Update(context.Background(), existing.ID, &models.Recipe{
		Title: "Tomato Soup", Category: "lunch",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	stored, _ := recipes.GetByID(context.Background(), existing.ID)
	if stored.Slug != "tomato-soup" {
		t.Errorf("slug = %q, want unchanged tomato-soup", stored.Slug)
	}
	if stored.Category != "lunch" {
		t.Errorf("category = %q, want lunch", stored.Category)
	}

	// Changed title, no slug supplied: the slug is regenerated.
	err = svc.Update(context.Background(), existing.ID, &models.Recipe{
		Title: "Roasted Tomato Soup", Category: "lunch",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	stored, _ = recipes.GetByID(context.Background(), existing.ID)
	if stored.Slug != "roasted-tomato-soup" {
		t.Errorf("slug = %q, want regenerated roasted-tomato-soup", stored.Slug)
	}

	// Explicit slug always wins.
	err = svc.Update(context.Background(), existing.ID, &models.Recipe{
		Title: "Roasted Tomato Soup", Category: "lunch", Slug: "the-soup",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	stored, _ = recipes.GetByID(context.Background(), existing.ID)
	if stored.Slug != "the-soup" {
		t.Errorf("slug = %q, want the-soup", stored.Slug)
	}
}

func TestCatalogUpdateNotFound(t *testing.T) {
	svc := newTestCatalogService(mocks.NewMockRecipeRepository())

	err := svc.Update(context.Background(), 42, &models.Recipe{Title: "X", Category: "dinner"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestCatalogGetBySlug(t *testing.T) {
	recipes := mocks.NewMockRecipeRepository()
	recipes.Seed(&models.Recipe{Title: "Tomato Soup", Slug: "tomato-soup", Category: "dinner"})
	svc := newTestCatalogService(recipes)

	got, err := svc.GetBySlug(context.Background(), "tomato-soup")
	if err != nil || got == nil {
		t.Fatalf("GetBySlug() = %v, %v", got, err)
	}
	if _, err := svc.GetBySlug(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestCatalogListRejectsUnknownCategory(t *testing.T) {
	svc := newTestCatalogService(mocks.NewMockRecipeRepository())

	_, err := svc.List(context.Background(), models.ListFilter{Category: "brunch"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

func TestCatalogListFilters(t *testing.T) {
	recipes := mocks.NewMockRecipeRepository()
	recipes.Seed(&models.Recipe{Title: "Soup", Slug: "soup", Category: "dinner", Status: "published"})
	recipes.Seed(&models.Recipe{Title: "Cake", Slug: "cake", Category: "dessert", Status: "draft"})
	svc := newTestCatalogService(recipes)

	got, err := svc.List(context.Background(), models.ListFilter{Category: "Dessert"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0].Slug != "cake" {
		t.Errorf("filtered list = %+v", got)
	}
}

func TestCatalogDelete(t *testing.T) {
	recipes := mocks.NewMockRecipeRepository()
	existing := recipes.Seed(&models.Recipe{Title: "Soup", Slug: "soup", Category: "dinner"})
	svc := newTestCatalogService(recipes)

	if err := svc.Delete(context.Background(), existing.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.Delete(context.Background(), existing.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: want ErrNotFound, got %v", err)
	}
}
