package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/Shadojus/amorph/internal/config"
	"github.com/Shadojus/amorph/internal/engine"
	"github.com/Shadojus/amorph/internal/metrics"
	"github.com/Shadojus/amorph/internal/models"
	"github.com/Shadojus/amorph/internal/render"
)

// ErrUnknownPerspective is returned when a perspective id is not in the
// schema.
var ErrUnknownPerspective = errors.New("unknown perspective")

// SpeciesService renders species pages and search grids.
type SpeciesService struct {
	store   Store
	engine  *engine.Engine
	schema  *config.Schema
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewSpeciesService creates a species service. A nil schema uses the
// embedded default; nil metrics disables timing.
func NewSpeciesService(store Store, eng *engine.Engine, schema *config.Schema, m *metrics.Collector, logger *slog.Logger) *SpeciesService {
	if schema == nil {
		schema = config.DefaultSchema()
	}
	return &SpeciesService{
		store:   store,
		engine:  eng,
		schema:  schema,
		metrics: m,
		logger:  config.Component(logger, "species"),
	}
}

// Schema returns the schema the service filters with.
func (s *SpeciesService) Schema() *config.Schema {
	return s.schema
}

// Get returns one species.
func (s *SpeciesService) Get(ctx context.Context, slug string) (models.Record, error) {
	return timed(s.metrics, metrics.OpStoreGet, func() (models.Record, error) {
		return s.store.GetSpecies(ctx, slug)
	})
}

// Page is one rendered species.
type Page struct {
	Record      models.Record
	Perspective string
	Markup      string
}

// Render renders a species detail page. A non-empty perspective limits the
// page to that perspective's fields, keeping the record's field order.
func (s *SpeciesService) Render(ctx context.Context, slug, perspective string) (Page, error) {
	rec, err := s.Get(ctx, slug)
	if err != nil {
		return Page{}, err
	}
	if perspective != "" {
		fields := s.schema.FieldsFor(perspective)
		if fields == nil {
			return Page{}, fmt.Errorf("%w: %s", ErrUnknownPerspective, perspective)
		}
		rec = project(rec, fields)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<article class="amorph-species" data-species="%s"`, render.Escape(rec.Key()))
	if perspective != "" {
		fmt.Fprintf(&b, ` data-perspective="%s"`, render.Escape(perspective))
	}
	b.WriteString(`><h1 class="amorph-species-name">` + render.Escape(rec.DisplayName()) + `</h1>`)
	b.WriteString(s.engine.RenderRecord(rec, render.Single()))
	b.WriteString(`</article>`)

	s.logger.Debug("species rendered", "slug", slug, "perspective", perspective, "fields", len(rec.Fields))
	return Page{Record: rec, Perspective: perspective, Markup: b.String()}, nil
}

// Card is one search result rendered in grid mode.
type Card struct {
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	Markup string `json:"markup"`
}

// Grid is a rendered search result.
type Grid struct {
	Query        string   `json:"query"`
	Perspectives []string `json:"perspectives,omitempty"`
	Cards        []Card   `json:"cards"`
	Markup       string   `json:"markup"`
}

// SearchGrid searches species and renders each hit as a compact card.
// Perspective keywords in the query ("edible", "toxic") select the fields
// shown on the cards and are removed before the text search.
func (s *SpeciesService) SearchGrid(ctx context.Context, query string, limit int) (Grid, error) {
	perspectives := s.schema.DetectPerspectives(query)
	text := query
	if len(perspectives) > 0 {
		text = s.schema.StripKeywords(query)
	}

	records, err := timed(s.metrics, metrics.OpStoreSearch, func() ([]models.Record, error) {
		return s.store.SearchSpecies(ctx, text, limit)
	})
	if err != nil {
		return Grid{}, fmt.Errorf("search species: %w", err)
	}

	var fields []string
	for _, p := range perspectives {
		for _, f := range s.schema.FieldsFor(p) {
			if !slices.Contains(fields, f) {
				fields = append(fields, f)
			}
		}
	}

	grid := Grid{Query: query, Perspectives: perspectives, Cards: make([]Card, 0, len(records))}
	ctxGrid := render.Context{Mode: render.ModeGrid, Compact: true, HideAttribution: true}
	var b strings.Builder
	fmt.Fprintf(&b, `<section class="amorph-grid" data-count="%d">`, len(records))
	for _, rec := range records {
		if fields != nil {
			rec = project(rec, fields)
		}
		var card strings.Builder
		fmt.Fprintf(&card, `<article class="amorph-card" data-species="%s"><h2 class="amorph-species-name">%s</h2>`,
			render.Escape(rec.Key()), render.Escape(rec.DisplayName()))
		card.WriteString(s.engine.RenderRecord(rec, ctxGrid))
		card.WriteString(`</article>`)
		grid.Cards = append(grid.Cards, Card{Slug: rec.Key(), Name: rec.DisplayName(), Markup: card.String()})
		b.WriteString(card.String())
	}
	b.WriteString(`</section>`)
	grid.Markup = b.String()

	s.logger.Debug("search rendered", "query", query, "perspectives", perspectives, "hits", len(records))
	return grid, nil
}

// project keeps the fields of rec named in fields, in rec's order.
func project(rec models.Record, fields []string) models.Record {
	out := rec
	out.Fields = nil
	for _, f := range rec.Fields {
		if slices.Contains(fields, f.Name) {
			out.Fields = append(out.Fields, f)
		}
	}
	return out
}
