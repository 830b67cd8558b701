package service

import (
	"context"
	"database/sql/driver"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/recipe-catalog-api/internal/config"
	"github.com/recipe-catalog-api/internal/models"
	"github.com/recipe-catalog-api/internal/repository"
	"github.com/recipe-catalog-api/internal/validation"
	"github.com/rs/zerolog"
)

// importService is the concrete implementation of ImportService
type importService struct {
	repos *repository.Repositories
	cfg   *config.Config
	log   zerolog.Logger
}

// newImportService creates a new ImportService
func newImportService(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *importService {
	return &importService{
		repos: repos,
		cfg:   cfg,
		log:   log.With().Str("service", "import").Logger(),
	}
}

// importRow is one surviving CSV data row, projected onto canonical fields.
// line counts the header as row 1, so the first data row is 2.
type importRow struct {
	line   int
	fields map[string]string
}

// ImportCSV runs the two-pass import over an uploaded file. Pass 1 streams
// the file and drops within-file duplicate titles, keeping the first
// occurrence. Pass 2 validates, cross-references persisted titles and writes
// rows inside a single transaction. Row-level problems are recorded in the
// report; only infrastructure failures abort the batch.
func (s *importService) ImportCSV(ctx context.Context, filePath, filename string, policy models.DuplicatePolicy) (*models.ImportRun, error) {
	startTime := time.Now()

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: file has no header row", ErrInvalidInput)
	}
	mapping, err := MapHeaders(header)
	if err != nil {
		return nil, err
	}

	report := &models.ImportReport{
		Errors:     []string{},
		Duplicates: []models.DuplicateEntry{},
	}
	deduper := validation.NewDeduper()

	rows, err := s.firstPass(reader, mapping, deduper, report)
	if err != nil {
		return nil, err
	}

	// Snapshot persisted titles once; rows written during this run are
	// intentionally invisible to it (pass 1 already de-duplicated the batch).
	index, err := s.repos.Recipe.TitleIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("build title index: %w", err)
	}
	deduper.SetExistingTitles(index)

	err = s.repos.Recipe.InTx(ctx, func(tx repository.RecipeWriter) error {
		for _, row := range rows {
			if err := s.importOne(ctx, tx, row, policy, deduper, report); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Str("file", filename).Msg("Import aborted, batch rolled back")
		return nil, fmt.Errorf("import failed: %w", err)
	}

	run := &models.ImportRun{
		ID:              uuid.New().String(),
		Filename:        filename,
		DuplicatePolicy: string(policy),
		Report:          *report,
		CreatedAt:       time.Now(),
	}
	if err := s.repos.ImportRun.Create(ctx, run); err != nil {
		// History is best-effort; the import itself already committed.
		s.log.Warn().Err(err).Str("run_id", run.ID).Msg("Failed to persist import run")
	}

	s.log.Info().
		Str("run_id", run.ID).
		Str("file", filename).
		Int("total", report.Total).
		Int("imported", report.Imported).
		Int("updated", report.Updated).
		Int("skipped", report.Skipped).
		Int("duplicates", report.DuplicatesFound).
		Dur("duration", time.Since(startTime)).
		Msg("Import completed")

	return run, nil
}

// firstPass streams data rows, drops blank rows, and discards within-file
// duplicate titles. Rows with an empty title are carried forward so pass 2
// can reject them with a row-numbered message.
func (s *importService) firstPass(reader *csv.Reader, mapping map[int]string, deduper *validation.Deduper, report *models.ImportReport) ([]importRow, error) {
	var rows []importRow
	line := 1 // header

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: malformed CSV row", line))
			report.Skipped++
			report.Total++
			continue
		}

		fields := make(map[string]string, len(mapping))
		blank := true
		for i, cell := range record {
			cleaned := cleanCell(cell)
			if cleaned != "" {
				blank = false
			}
			if name, ok := mapping[i]; ok {
				fields[name] = cleaned
			}
		}
		if blank {
			continue
		}
		report.Total++

		title := fields["title"]
		if title != "" {
			if firstRow, seen := deduper.SeenInBatch(title); seen {
				report.Duplicates = append(report.Duplicates, models.DuplicateEntry{
					Type:     models.DuplicateWithinCSV,
					Title:    title,
					Row:      line,
					FirstRow: firstRow,
					Action:   "skipped",
				})
				report.DuplicatesFound++
				report.Skipped++
				continue
			}
			deduper.MarkSeen(title, line)
		}

		rows = append(rows, importRow{line: line, fields: fields})
	}

	return rows, nil
}

// importOne validates and persists a single row. A nil return means the row
// was handled (written or counted as skipped); a non-nil return is an
// infrastructure failure that aborts the whole batch.
func (s *importService) importOne(ctx context.Context, tx repository.RecipeWriter, row importRow, policy models.DuplicatePolicy, deduper *validation.Deduper, report *models.ImportReport) error {
	title := row.fields["title"]
	if title == "" {
		report.Errors = append(report.Errors, fmt.Sprintf("row %d: missing title", row.line))
		report.Skipped++
		return nil
	}
	rawCategory := row.fields["category"]
	if rawCategory == "" {
		report.Errors = append(report.Errors, fmt.Sprintf("row %d: missing category", row.line))
		report.Skipped++
		return nil
	}
	category, ok := validation.Category(rawCategory)
	if !ok {
		report.Errors = append(report.Errors, fmt.Sprintf("row %d: invalid category %q", row.line, rawCategory))
		report.Skipped++
		return nil
	}

	existingID, isDup := deduper.FindExisting(title)
	if isDup {
		action := "skipped"
		if policy == models.PolicyUpdate {
			action = "updated"
		}
		report.Duplicates = append(report.Duplicates, models.DuplicateEntry{
			Type:       models.DuplicateInDatabase,
			Title:      title,
			Row:        row.line,
			ExistingID: existingID,
			Action:     action,
		})
		report.DuplicatesFound++
		report.DuplicatesHandled++
	}

	// Resolve the write target. An explicit id that matches an existing row
	// forces an update of that row, whatever the duplicate policy decided.
	var targetID int64
	if idStr := row.fields["id"]; idStr != "" {
		if id, err := strconv.ParseInt(idStr, 10, 64); err == nil && id > 0 {
			exists, err := tx.ExistsByID(ctx, id)
			if err != nil {
				return fmt.Errorf("check id %d: %w", id, err)
			}
			if exists {
				targetID = id
			}
		}
	}
	if targetID == 0 && isDup {
		if policy != models.PolicyUpdate {
			report.Skipped++
			return nil
		}
		targetID = existingID
	}

	recipe := buildRecipe(row.fields, category)

	recipe.Slug = row.fields["slug"]
	if recipe.Slug == "" {
		generated, err := ensureUniqueSlug(ctx, tx, title, targetID)
		if err != nil {
			return fmt.Errorf("generate slug: %w", err)
		}
		recipe.Slug = generated
	}

	if targetID != 0 {
		recipe.ID = targetID
		if err := tx.Update(ctx, recipe); err != nil {
			return s.rowDBError(report, row.line, "update", err)
		}
		report.Updated++
		return nil
	}

	if _, err := tx.Insert(ctx, recipe); err != nil {
		return s.rowDBError(report, row.line, "insert", err)
	}
	report.Imported++
	return nil
}

// rowDBError converts a row-scoped database failure into a report entry and
// lets the batch continue; connection-level failures propagate and roll the
// whole transaction back. Driver internals never reach the report.
func (s *importService) rowDBError(report *models.ImportReport, line int, op string, err error) error {
	if isFatalDBErr(err) {
		return err
	}
	s.log.Error().Err(err).Int("row", line).Str("op", op).Msg("Row write failed")
	report.Errors = append(report.Errors, fmt.Sprintf("row %d: database error on %s", line, op))
	report.Skipped++
	return nil
}

// isFatalDBErr reports whether the error means the connection or transaction
// is unusable. SQLSTATE classes: 08 connection, 53 resources, 57 operator
// intervention, 58 system, XX internal.
func isFatalDBErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", "53", "57", "58", "XX":
			return true
		}
	}
	return false
}

var stepNumberRe = regexp.MustCompile(`^\d+\.`)

// splitLines breaks a ||-delimited cell into trimmed items, dropping empties,
// and rejoins them with newlines for storage.
func splitLines(raw string) string {
	return joinItems(raw, false)
}

// numberSteps is splitLines plus an auto-incrementing "N. " prefix for items
// that are not already numbered.
func numberSteps(raw string) string {
	return joinItems(raw, true)
}

func joinItems(raw string, numbered bool) string {
	parts := strings.Split(raw, "||")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		if numbered && !stepNumberRe.MatchString(item) {
			item = fmt.Sprintf("%d. %s", len(items)+1, item)
		}
		items = append(items, item)
	}
	return strings.Join(items, "\n")
}

// buildRecipe normalizes the mapped fields into a Recipe. category has
// already been validated by the caller; every other field is total-normalized.
func buildRecipe(fields map[string]string, category string) *models.Recipe {
	r := &models.Recipe{
		Title:        fields["title"],
		Image:        fields["image"],
		VideoURL:     fields["video_url"],
		VideoFile:    fields["video_file"],
		VideoPath:    fields["video_path"],
		Description:  fields["description"],
		Ingredients:  splitLines(fields["ingredients"]),
		Instructions: numberSteps(fields["instructions"]),
		Tags:         fields["tags"],
		PrepTime:     fields["prep_time"],
		CookTime:     fields["cook_time"],
		Servings:     validation.Servings(fields["servings"]),
		Difficulty:   validation.Difficulty(fields["difficulty"]),
		Rating:       validation.ParseRating(fields["rating"]),
		RatingCount:  validation.PositiveInt(fields["rating_count"], 0, 0),
		Category:     category,
		Status:       validation.Status(fields["status"]),
		Views:        validation.PositiveInt(fields["views"], 0, 0),
		Likes:        validation.PositiveInt(fields["likes"], 0, 0),
		Featured:     validation.Featured(fields["featured"]),
		CreatedAt:    validation.Timestamp(fields["created_at"]),
		UpdatedAt:    validation.Timestamp(fields["updated_at"]),
	}

	if idStr := fields["author_id"]; idStr != "" {
		if id, err := strconv.ParseInt(idStr, 10, 64); err == nil && id > 0 {
			r.AuthorID = &id
		}
	}
	return r
}

// GetRun retrieves one persisted import run
func (s *importService) GetRun(ctx context.Context, id string) (*models.ImportRun, error) {
	run, err := s.repos.ImportRun.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, ErrNotFound
	}
	return run, nil
}

// ListRuns returns recent import runs, newest first
func (s *importService) ListRuns(ctx context.Context, limit int) ([]*models.ImportRun, error) {
	return s.repos.ImportRun.List(ctx, limit)
}
