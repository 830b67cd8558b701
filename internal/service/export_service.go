package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/recipe-catalog-api/internal/models"
	"github.com/recipe-catalog-api/internal/repository"
	"github.com/rs/zerolog"
)

// exportService is the concrete implementation of ExportService
type exportService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(repos *repository.Repositories, log zerolog.Logger) *exportService {
	return &exportService{
		repos: repos,
		log:   log.With().Str("service", "export").Logger(),
	}
}

// StreamRecipes streams the catalog in the requested format
func (s *exportService) StreamRecipes(ctx context.Context, w http.ResponseWriter, format string) error {
	s.log.Info().Str("format", format).Msg("Starting recipes export")

	switch format {
	case "ndjson":
		return s.streamNDJSON(ctx, w)
	case "csv":
		return s.streamCSV(ctx, w)
	default:
		return fmt.Errorf("%w: unsupported format %q", ErrInvalidInput, format)
	}
}

func (s *exportService) streamNDJSON(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", "attachment; filename=recipes.ndjson")

	flusher, _ := w.(http.Flusher)
	count := 0

	err := s.repos.Recipe.StreamAll(ctx, func(recipe *models.Recipe) error {
		data, err := json.Marshal(recipe)
		if err != nil {
			return err
		}
		w.Write(data)
		w.Write([]byte("\n"))
		count++

		if count%100 == 0 && flusher != nil {
			flusher.Flush()
		}
		return nil
	})

	s.log.Info().Int("count", count).Msg("Recipes export completed")
	return err
}

// exportHeader matches the import vocabulary so an export round-trips
var exportHeader = []string{
	"id", "title", "slug", "image", "description", "ingredients", "instructions",
	"tags", "prep_time", "cook_time", "servings", "difficulty", "rating",
	"rating_count", "category", "status", "views", "likes", "featured", "created_at",
}

func (s *exportService) streamCSV(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=recipes.csv")

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(exportHeader); err != nil {
		return err
	}

	count := 0
	err := s.repos.Recipe.StreamAll(ctx, func(recipe *models.Recipe) error {
		featured := "0"
		if recipe.Featured {
			featured = "1"
		}
		record := []string{
			strconv.FormatInt(recipe.ID, 10),
			recipe.Title,
			recipe.Slug,
			recipe.Image,
			recipe.Description,
			// Multi-line fields go back to the || sub-delimiter so the
			// export can be re-imported as-is.
			strings.ReplaceAll(recipe.Ingredients, "\n", "||"),
			strings.ReplaceAll(recipe.Instructions, "\n", "||"),
			recipe.Tags,
			recipe.PrepTime,
			recipe.CookTime,
			strconv.Itoa(recipe.Servings),
			recipe.Difficulty,
			strconv.FormatFloat(recipe.Rating, 'f', 1, 64),
			strconv.Itoa(recipe.RatingCount),
			recipe.Category,
			recipe.Status,
			strconv.Itoa(recipe.Views),
			strconv.Itoa(recipe.Likes),
			featured,
			recipe.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		count++
		return writer.Write(record)
	})

	s.log.Info().Int("count", count).Msg("Recipes export completed")
	return err
}
