package mocks

import (
	"context"
	"sort"
	"strings"

	"github.com/recipe-catalog-api/internal/models"
	"github.com/recipe-catalog-api/internal/repository"
)

// MockRecipeRepository is an in-memory implementation of RecipeRepository.
// Error injection: InsertErrForTitle/UpdateErrForID fail individual writes,
// FatalErrForTitle simulates a connection-level failure mid-batch. InTx
// snapshots state and restores it when fn errors, mirroring a rollback.
type MockRecipeRepository struct {
	Recipes map[int64]*models.Recipe
	NextID  int64

	InsertErrForTitle map[string]error
	UpdateErrForID    map[int64]error
	FatalErrForTitle  map[string]error

	InsertCalls int
	UpdateCalls int
}

// NewMockRecipeRepository creates an empty mock repository
func NewMockRecipeRepository() *MockRecipeRepository {
	return &MockRecipeRepository{
		Recipes:           make(map[int64]*models.Recipe),
		NextID:            1,
		InsertErrForTitle: make(map[string]error),
		UpdateErrForID:    make(map[int64]error),
		FatalErrForTitle:  make(map[string]error),
	}
}

// Seed adds a recipe directly, bypassing error injection
func (m *MockRecipeRepository) Seed(r *models.Recipe) *models.Recipe {
	if r.ID == 0 {
		r.ID = m.NextID
	}
	if r.ID >= m.NextID {
		m.NextID = r.ID + 1
	}
	cp := *r
	m.Recipes[cp.ID] = &cp
	return &cp
}

func invalidCategory(r *models.Recipe) bool {
	c := strings.TrimSpace(r.Category)
	return c == "" || !models.ValidCategories[c]
}

func (m *MockRecipeRepository) sortedIDs() []int64 {
	ids := make([]int64, 0, len(m.Recipes))
	for id := range m.Recipes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (m *MockRecipeRepository) Insert(ctx context.Context, r *models.Recipe) (int64, error) {
	m.InsertCalls++
	if err := m.FatalErrForTitle[r.Title]; err != nil {
		return 0, err
	}
	if err := m.InsertErrForTitle[r.Title]; err != nil {
		return 0, err
	}
	r.ID = m.NextID
	m.NextID++
	cp := *r
	m.Recipes[cp.ID] = &cp
	return cp.ID, nil
}

func (m *MockRecipeRepository) Update(ctx context.Context, r *models.Recipe) error {
	m.UpdateCalls++
	if err := m.FatalErrForTitle[r.Title]; err != nil {
		return err
	}
	if err := m.UpdateErrForID[r.ID]; err != nil {
		return err
	}
	cp := *r
	m.Recipes[cp.ID] = &cp
	return nil
}

func (m *MockRecipeRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	_, ok := m.Recipes[id]
	return ok, nil
}

func (m *MockRecipeRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	for _, r := range m.Recipes {
		if r.Slug == slug && r.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRecipeRepository) SetCategory(ctx context.Context, id int64, category string) error {
	if r, ok := m.Recipes[id]; ok {
		r.Category = category
	}
	return nil
}

func (m *MockRecipeRepository) SetCategoryWhereInvalid(ctx context.Context, category string) (int64, error) {
	var n int64
	for _, id := range m.sortedIDs() {
		if invalidCategory(m.Recipes[id]) {
			m.Recipes[id].Category = category
			n++
		}
	}
	return n, nil
}

func (m *MockRecipeRepository) DeleteUnsalvageable(ctx context.Context) (int64, error) {
	var n int64
	for _, id := range m.sortedIDs() {
		r := m.Recipes[id]
		if invalidCategory(r) && (strings.TrimSpace(r.Ingredients) == "" || strings.TrimSpace(r.Instructions) == "") {
			delete(m.Recipes, id)
			n++
		}
	}
	return n, nil
}

func (m *MockRecipeRepository) InvalidCategoryRecipes(ctx context.Context) ([]models.IssueRow, error) {
	var rows []models.IssueRow
	for _, id := range m.sortedIDs() {
		r := m.Recipes[id]
		if invalidCategory(r) {
			rows = append(rows, models.IssueRow{ID: r.ID, Title: r.Title, Category: r.Category})
		}
	}
	return rows, nil
}

func (m *MockRecipeRepository) GetByID(ctx context.Context, id int64) (*models.Recipe, error) {
	r, ok := m.Recipes[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *MockRecipeRepository) GetBySlug(ctx context.Context, slug string) (*models.Recipe, error) {
	for _, id := range m.sortedIDs() {
		if m.Recipes[id].Slug == slug {
			cp := *m.Recipes[id]
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockRecipeRepository) List(ctx context.Context, filter models.ListFilter) ([]*models.Recipe, error) {
	var out []*models.Recipe
	for _, id := range m.sortedIDs() {
		r := m.Recipes[id]
		if filter.Category != "" && r.Category != filter.Category {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(r.Title), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.Featured && !r.Featured {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockRecipeRepository) Delete(ctx context.Context, id int64) error {
	delete(m.Recipes, id)
	return nil
}

func (m *MockRecipeRepository) Count(ctx context.Context) (int, error) {
	return len(m.Recipes), nil
}

func (m *MockRecipeRepository) CountByCategory(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, r := range m.Recipes {
		counts[r.Category]++
	}
	return counts, nil
}

func (m *MockRecipeRepository) TitleIndex(ctx context.Context) (map[string]int64, error) {
	index := make(map[string]int64)
	for _, r := range m.Recipes {
		index[strings.ToLower(strings.TrimSpace(r.Title))] = r.ID
	}
	return index, nil
}

func (m *MockRecipeRepository) FindViolations(ctx context.Context) ([]*models.Recipe, error) {
	var out []*models.Recipe
	for _, id := range m.sortedIDs() {
		r := m.Recipes[id]
		if invalidCategory(r) ||
			strings.TrimSpace(r.Title) == "" ||
			strings.TrimSpace(r.Ingredients) == "" ||
			strings.TrimSpace(r.Instructions) == "" {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockRecipeRepository) InTx(ctx context.Context, fn func(tx repository.RecipeWriter) error) error {
	snapshot := make(map[int64]*models.Recipe, len(m.Recipes))
	for id, r := range m.Recipes {
		cp := *r
		snapshot[id] = &cp
	}
	nextID := m.NextID

	if err := fn(m); err != nil {
		m.Recipes = snapshot
		m.NextID = nextID
		return err
	}
	return nil
}

func (m *MockRecipeRepository) StreamAll(ctx context.Context, callback func(*models.Recipe) error) error {
	for _, id := range m.sortedIDs() {
		cp := *m.Recipes[id]
		if err := callback(&cp); err != nil {
			return err
		}
	}
	return nil
}

// MockImportRunRepository is an in-memory implementation of ImportRunRepository
type MockImportRunRepository struct {
	Runs      map[string]*models.ImportRun
	CreateErr error
}

// NewMockImportRunRepository creates an empty mock run repository
func NewMockImportRunRepository() *MockImportRunRepository {
	return &MockImportRunRepository{
		Runs: make(map[string]*models.ImportRun),
	}
}

func (m *MockImportRunRepository) Create(ctx context.Context, run *models.ImportRun) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	cp := *run
	m.Runs[cp.ID] = &cp
	return nil
}

func (m *MockImportRunRepository) GetByID(ctx context.Context, id string) (*models.ImportRun, error) {
	run, ok := m.Runs[id]
	if !ok {
		return nil, nil
	}
	cp := *run
	return &cp, nil
}

func (m *MockImportRunRepository) List(ctx context.Context, limit int) ([]*models.ImportRun, error) {
	var runs []*models.ImportRun
	for _, run := range m.Runs {
		cp := *run
		runs = append(runs, &cp)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].CreatedAt.After(runs[j].CreatedAt) })
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}
