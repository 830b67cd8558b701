package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/recipe-catalog-api/internal/mocks"
	"github.com/recipe-catalog-api/internal/models"
	"github.com/recipe-catalog-api/internal/repository"
	"github.com/rs/zerolog"
)

func newTestExportService(recipes *mocks.MockRecipeRepository) *exportService {
	repos := &repository.Repositories{Recipe: recipes, ImportRun: mocks.NewMockImportRunRepository()}
	return newExportService(repos, zerolog.Nop())
}

func TestStreamRecipesCSVRoundTrips(t *testing.T) {
	recipes := mocks.NewMockRecipeRepository()
	recipes.Seed(&models.Recipe{
		Title: "Tomato Soup", Slug: "tomato-soup", Category: "dinner",
		Ingredients:  "water\ntomatoes",
		Instructions: "1. boil\n2. serve",
		Servings:     2, Difficulty: "Easy", Rating: 4.5, Status: "published",
		Featured:  true,
		CreatedAt: time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC),
	})

	svc := newTestExportService(recipes)
	rec := httptest.NewRecorder()
	if err := svc.StreamRecipes(context.Background(), rec, "csv"); err != nil {
		t.Fatalf("StreamRecipes() error = %v", err)
	}

	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q", ct)
	}

	rows, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse exported csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header + 1", len(rows))
	}

	// The export header must be understood by the importer.
	mapping, err := MapHeaders(rows[0])
	if err != nil {
		t.Fatalf("export header not importable: %v", err)
	}

	fields := make(map[string]string)
	for i, cell := range rows[1] {
		if name, ok := mapping[i]; ok {
			fields[name] = cell
		}
	}
	if fields["title"] != "Tomato Soup" || fields["category"] != "dinner" {
		t.Errorf("row fields = %+v", fields)
	}
	if fields["ingredients"] != "water||tomatoes" {
		t.Errorf("ingredients = %q, want || sub-delimited", fields["ingredients"])
	}
	if fields["instructions"] != "1. boil||2. serve" {
		t.Errorf("instructions = %q", fields["instructions"])
	}
	if fields["featured"] != "1" {
		t.Errorf("featured = %q, want 1", fields["featured"])
	}
	if fields["created_at"] != "2025-03-01 12:30:00" {
		t.Errorf("created_at = %q", fields["created_at"])
	}
}

func TestStreamRecipesNDJSON(t *testing.T) {
	recipes := mocks.NewMockRecipeRepository()
	recipes.Seed(&models.Recipe{Title: "Soup", Slug: "soup", Category: "dinner"})
	recipes.Seed(&models.Recipe{Title: "Cake", Slug: "cake", Category: "dessert"})

	svc := newTestExportService(recipes)
	rec := httptest.NewRecorder()
	if err := svc.StreamRecipes(context.Background(), rec, "ndjson"); err != nil {
		t.Fatalf("StreamRecipes() error = %v", err)
	}

	if ct := rec.Header().Get("Content-Type"); ct != "application/x-ndjson" {
		t.Errorf("Content-Type = %q", ct)
	}

	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	for i, line := range lines {
		var r models.Recipe
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			t.Errorf("line %d is not valid JSON: %v", i, err)
		}
	}
}

func TestStreamRecipesRejectsUnknownFormat(t *testing.T) {
	svc := newTestExportService(mocks.NewMockRecipeRepository())
	rec := httptest.NewRecorder()

	err := svc.StreamRecipes(context.Background(), rec, "xml")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}
