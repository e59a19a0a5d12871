package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Shadojus/amorph/internal/compare"
	"github.com/Shadojus/amorph/internal/config"
	"github.com/Shadojus/amorph/internal/engine"
	"github.com/Shadojus/amorph/internal/metrics"
	"github.com/Shadojus/amorph/internal/models"
	"github.com/Shadojus/amorph/internal/render"
	"golang.org/x/sync/errgroup"
)

// ErrNoSelections is returned for a compare request without selections.
var ErrNoSelections = errors.New("no selections")

// CompareService renders comparisons from client selections.
type CompareService struct {
	store   Store
	engine  *engine.Engine
	limit   int
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewCompareService creates a compare service. A nil store disables fill;
// limit <= 0 uses compare.DefaultCap.
func NewCompareService(store Store, eng *engine.Engine, limit int, m *metrics.Collector, logger *slog.Logger) *CompareService {
	return &CompareService{
		store:   store,
		engine:  eng,
		limit:   limit,
		metrics: m,
		logger:  config.Component(logger, "compare"),
	}
}

// Compare renders the selections. Entity ids are species slugs. Entities
// are colored by req.Order, then by first selection. With req.Fill every
// selected field is fetched for every selected entity, concurrently; an
// entity the store does not know keeps only its selected values.
func (s *CompareService) Compare(ctx context.Context, req models.CompareRequest) (models.CompareResponse, error) {
	if len(req.Selections) == 0 {
		return models.CompareResponse{}, ErrNoSelections
	}
	session := compare.NewSession(s.limit)
	if err := session.Seed(req.Order); err != nil {
		return models.CompareResponse{}, err
	}
	for _, sel := range req.Selections {
		if err := session.Select(sel); err != nil {
			return models.CompareResponse{}, err
		}
	}

	entities := session.Entities()
	records := recordsFrom(session, entities)
	if req.Fill && s.store != nil {
		if err := s.fill(ctx, records, session.Fields()); err != nil {
			return models.CompareResponse{}, err
		}
	}

	colors := make([]string, len(entities))
	for i, e := range entities {
		colors[i] = session.Color(e.ID)
	}
	c := s.engine.Compare(records, render.Context{Entities: entities, Colors: colors})

	s.logger.Debug("comparison rendered",
		"session", session.ID(), "selections", session.Len(),
		"entities", c.Entities, "fields", c.Fields, "fill", req.Fill)
	return models.CompareResponse{
		Markup:      c.Markup,
		EntityCount: c.Entities,
		FieldCount:  c.Fields,
	}, nil
}

// recordsFrom builds one record per entity holding its selected values in
// selection order.
func recordsFrom(session *compare.Session, entities []render.Entity) []models.Record {
	index := make(map[string]int, len(entities))
	records := make([]models.Record, len(entities))
	for i, e := range entities {
		index[e.ID] = i
		records[i] = models.Record{ID: e.ID, Slug: e.ID, Name: e.Name}
	}
	for _, sel := range session.Selections() {
		if i, ok := index[sel.EntityID]; ok {
			records[i].Set(sel.FieldName, sel.Value)
		}
	}
	return records
}

// fill fetches the fields each record lacks. Each goroutine writes only its
// own record.
func (s *CompareService) fill(ctx context.Context, records []models.Record, fields []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i := range records {
		var missing []string
		for _, f := range fields {
			if _, ok := records[i].Get(f); !ok {
				missing = append(missing, f)
			}
		}
		if len(missing) == 0 {
			continue
		}
		g.Go(func() error {
			got, err := timed(s.metrics, metrics.OpStoreFetch, func() (models.Record, error) {
				return s.store.GetFields(gctx, records[i].Key(), missing)
			})
			if errors.Is(err, models.ErrNotFound) {
				s.logger.Debug("fill skipped unknown species", "slug", records[i].Key())
				return nil
			}
			if err != nil {
				return fmt.Errorf("fill %s: %w", records[i].Key(), err)
			}
			for _, f := range got.Fields {
				records[i].Set(f.Name, f.Value)
			}
			return nil
		})
	}
	return g.Wait()
}
