package service

import (
	"context"
	"testing"

	"github.com/recipe-catalog-api/internal/mocks"
	"github.com/recipe-catalog-api/internal/models"
)

func TestEnsureUniqueSlug(t *testing.T) {
	recipes := mocks.NewMockRecipeRepository()

	got, err := ensureUniqueSlug(context.Background(), recipes, "Grandma's Tomato Soup!", 0)
	if err != nil {
		t.Fatalf("ensureUniqueSlug() error = %v", err)
	}
	if got != "grandma-s-tomato-soup" {
		t.Errorf("slug = %q", got)
	}

	// Same title again without a collision yields the same slug.
	again, _ := ensureUniqueSlug(context.Background(), recipes, "Grandma's Tomato Soup!", 0)
	if again != got {
		t.Errorf("slug generation should be deterministic: %q vs %q", again, got)
	}
}

func TestEnsureUniqueSlugSuffixes(t *testing.T) {
	recipes := mocks.NewMockRecipeRepository()
	recipes.Seed(&models.Recipe{Title: "Tomato Soup", Slug: "tomato-soup", Category: "dinner"})
	recipes.Seed(&models.Recipe{Title: "Tomato Soup Again", Slug: "tomato-soup-1", Category: "dinner"})

	got, err := ensureUniqueSlug(context.Background(), recipes, "Tomato Soup", 0)
	if err != nil {
		t.Fatalf("ensureUniqueSlug() error = %v", err)
	}
	if got != "tomato-soup-2" {
		t.Errorf("slug = %q, want tomato-soup-2", got)
	}
}

func TestEnsureUniqueSlugExcludesOwnRow(t *testing.T) {
	recipes := mocks.NewMockRecipeRepository()
	self := recipes.Seed(&models.Recipe{Title: "Tomato Soup", Slug: "tomato-soup", Category: "dinner"})

	got, err := ensureUniqueSlug(context.Background(), recipes, "Tomato Soup", self.ID)
	if err != nil {
		t.Fatalf("ensureUniqueSlug() error = %v", err)
	}
	if got != "tomato-soup" {
		t.Errorf("a row may keep its own slug on update, got %q", got)
	}
}

func TestEnsureUniqueSlugEmptyTitle(t *testing.T) {
	recipes := mocks.NewMockRecipeRepository()

	got, err := ensureUniqueSlug(context.Background(), recipes, "!!!", 0)
	if err != nil {
		t.Fatalf("ensureUniqueSlug() error = %v", err)
	}
	if got != "recipe" {
		t.Errorf("slug = %q, want fallback recipe", got)
	}
}
