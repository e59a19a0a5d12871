package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Shadojus/amorph/internal/catalog"
	"github.com/Shadojus/amorph/internal/compare"
	"github.com/Shadojus/amorph/internal/engine"
	"github.com/Shadojus/amorph/internal/metrics"
	"github.com/Shadojus/amorph/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const longNote = "Grows in mixed birch woodland on acidic soil"

func testStore() *catalog.Store {
	return catalog.New(
		models.Record{Slug: "amanita-muscaria", Name: "Fly Agaric", Fields: []models.Field{
			{Name: "edibility", Value: "toxic"},
			{Name: "toxicity", Value: "muscimol"},
			{Name: "habitat", Value: longNote},
			{Name: "cap_size", Value: map[string]any{"min": 8.0, "max": 20.0}},
		}},
		models.Record{Slug: "cantharellus-cibarius", Name: "Golden Chanterelle", Fields: []models.Field{
			{Name: "edibility", Value: "choice"},
			{Name: "habitat", Value: longNote},
			{Name: "cap_size", Value: map[string]any{"min": 3.0, "max": 10.0}},
		}},
	)
}

func TestSpeciesService_Render(t *testing.T) {
	m := metrics.NewCollector()
	svc := NewSpeciesService(testStore(), engine.New(), nil, m, nil)

	page, err := svc.Render(context.Background(), "amanita-muscaria", "")
	require.NoError(t, err)
	assert.Contains(t, page.Markup, `data-species="amanita-muscaria"`)
	assert.Contains(t, page.Markup, `Fly Agaric`)
	assert.Equal(t, 4, strings.Count(page.Markup, `class="amorph-field"`))
	assert.Equal(t, int64(1), m.Snapshot().StoreGet.Count)
}

func TestSpeciesService_RenderPerspective(t *testing.T) {
	svc := NewSpeciesService(testStore(), engine.New(), nil, nil, nil)

	page, err := svc.Render(context.Background(), "amanita-muscaria", "safety")
	require.NoError(t, err)
	assert.Equal(t, []string{"edibility", "toxicity"}, page.Record.Names())
	assert.Contains(t, page.Markup, `data-perspective="safety"`)
	assert.NotContains(t, page.Markup, `data-field="habitat"`)

	_, err = svc.Render(context.Background(), "amanita-muscaria", "astrology")
	assert.ErrorIs(t, err, ErrUnknownPerspective)

	_, err = svc.Render(context.Background(), "missing", "")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSpeciesService_SearchGrid(t *testing.T) {
	svc := NewSpeciesService(testStore(), engine.New(), nil, nil, nil)

	grid, err := svc.SearchGrid(context.Background(), "toxic agaric", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"safety"}, grid.Perspectives)
	require.Len(t, grid.Cards, 1)
	assert.Equal(t, "amanita-muscaria", grid.Cards[0].Slug)
	assert.NotContains(t, grid.Cards[0].Markup, `data-field="habitat"`, "perspective limits the card fields")
	assert.Contains(t, grid.Markup, `data-count="1"`)
	assert.NotContains(t, grid.Markup, "amorph-attribution")

	grid, err = svc.SearchGrid(context.Background(), "", 10)
	require.NoError(t, err)
	assert.Len(t, grid.Cards, 2)
	assert.Empty(t, grid.Perspectives)
}

func TestCompareService_Compare(t *testing.T) {
	svc := NewCompareService(testStore(), engine.New(), 0, nil, nil)
	req := models.CompareRequest{Selections: []models.Selection{
		{EntityID: "amanita-muscaria", EntityName: "Fly Agaric", FieldName: "habitat", Value: longNote},
		{EntityID: "cantharellus-cibarius", EntityName: "Golden Chanterelle", FieldName: "habitat", Value: longNote},
	}}

	resp, err := svc.Compare(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.EntityCount)
	assert.Equal(t, 1, resp.FieldCount)
	assert.Contains(t, resp.Markup, `data-field-key="amanita-muscaria:habitat|cantharellus-cibarius:habitat"`)
	assert.Contains(t, resp.Markup, compare.Palette[0])
	assert.Contains(t, resp.Markup, compare.Palette[1])
}

func TestCompareService_Order(t *testing.T) {
	svc := NewCompareService(testStore(), engine.New(), 0, nil, nil)
	req := models.CompareRequest{
		Order: []string{"cantharellus-cibarius", "amanita-muscaria"},
		Selections: []models.Selection{
			{EntityID: "amanita-muscaria", EntityName: "Fly Agaric", FieldName: "habitat", Value: longNote},
			{EntityID: "cantharellus-cibarius", EntityName: "Golden Chanterelle", FieldName: "habitat", Value: longNote},
		},
	}

	resp, err := svc.Compare(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, resp.Markup, `data-entity="cantharellus-cibarius" style="--entity-color:`+compare.Palette[0]+`"`)
	assert.Contains(t, resp.Markup, `data-entity="amanita-muscaria" style="--entity-color:`+compare.Palette[1]+`"`)

	req.Order = make([]string, compare.MaxOrder+1)
	_, err = svc.Compare(context.Background(), req)
	assert.ErrorIs(t, err, compare.ErrInvalidSelection)
}

func TestCompareService_Fill(t *testing.T) {
	m := metrics.NewCollector()
	svc := NewCompareService(testStore(), engine.New(), 0, m, nil)
	req := models.CompareRequest{Fill: true, Selections: []models.Selection{
		{EntityID: "amanita-muscaria", EntityName: "Fly Agaric", FieldName: "cap_size", Value: map[string]any{"min": 8.0, "max": 20.0}},
		{EntityID: "cantharellus-cibarius", EntityName: "Golden Chanterelle", FieldName: "edibility", Value: "choice"},
		{EntityID: "unknown-species", EntityName: "Unknown", FieldName: "edibility", Value: "edible"},
	}}

	resp, err := svc.Compare(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.EntityCount)
	assert.Equal(t, 2, resp.FieldCount)
	assert.Contains(t, resp.Markup, `data-field-key="amanita-muscaria:cap_size|cantharellus-cibarius:cap_size"`)
	assert.Contains(t, resp.Markup, `data-field-key="amanita-muscaria:edibility|cantharellus-cibarius:edibility|unknown-species:edibility"`)
	assert.Equal(t, int64(3), m.Snapshot().StoreFetch.Count)
}

func TestCompareService_Errors(t *testing.T) {
	svc := NewCompareService(nil, engine.New(), 1, nil, nil)
	ctx := context.Background()

	_, err := svc.Compare(ctx, models.CompareRequest{})
	assert.ErrorIs(t, err, ErrNoSelections)

	_, err = svc.Compare(ctx, models.CompareRequest{Selections: []models.Selection{{EntityID: "a"}}})
	assert.ErrorIs(t, err, compare.ErrInvalidSelection)

	_, err = svc.Compare(ctx, models.CompareRequest{Selections: []models.Selection{
		{EntityID: "a", FieldName: "f", Value: "x"},
		{EntityID: "b", FieldName: "f", Value: "y"},
	}})
	assert.ErrorIs(t, err, compare.ErrSelectionFull)
}

type failingStore struct{ *catalog.Store }

func (failingStore) GetFields(context.Context, string, []string) (models.Record, error) {
	return models.Record{}, errors.New("connection reset")
}

func TestCompareService_FillError(t *testing.T) {
	svc := NewCompareService(failingStore{testStore()}, engine.New(), 0, nil, nil)
	_, err := svc.Compare(context.Background(), models.CompareRequest{Fill: true, Selections: []models.Selection{
		{EntityID: "amanita-muscaria", FieldName: "edibility", Value: "toxic"},
		{EntityID: "cantharellus-cibarius", FieldName: "habitat", Value: longNote},
	}})
	assert.ErrorContains(t, err, "connection reset")
}

type memoryWriter struct {
	mu    sync.Mutex
	saved map[string]models.Record
	fail  string
}

func (w *memoryWriter) UpsertSpecies(_ context.Context, rec models.Record) (models.Record, error) {
	if rec.Key() == w.fail {
		return models.Record{}, errors.New("rejected")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.saved[rec.Key()] = rec
	return rec, nil
}

func TestImportService(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"a.md": "---\nname: Fly Agaric\nedible: false\n---\n",
		"b.md": "---\nname: Penny Bun\nedible: true\n---\n",
		"c.md": "# Golden Chanterelle\n\nYellow.\n",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	w := &memoryWriter{saved: map[string]models.Record{}, fail: "penny-bun"}
	svc := NewImportService(w, nil)

	dry, err := svc.ImportDirectory(context.Background(), dir, ImportOptions{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 3, dry.Species)
	assert.Zero(t, dry.Imported)
	assert.Empty(t, w.saved)

	res, err := svc.ImportDirectory(context.Background(), dir, ImportOptions{Concurrency: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "penny-bun")
	assert.Contains(t, w.saved, "fly-agaric")
	assert.Contains(t, w.saved, "golden-chanterelle")
}
