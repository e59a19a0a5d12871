// Package service wires stores, the render engine and the schema into the
// operations exposed over HTTP, MCP and the CLI.
package service

import (
	"context"
	"time"

	"github.com/Shadojus/amorph/internal/metrics"
	"github.com/Shadojus/amorph/internal/models"
)

// Store is a read-only species source. catalog.Store and db.Client
// implement it. Missing species are reported with models.ErrNotFound.
type Store interface {
	GetSpecies(ctx context.Context, slug string) (models.Record, error)
	GetFields(ctx context.Context, slug string, names []string) (models.Record, error)
	SearchSpecies(ctx context.Context, query string, limit int) ([]models.Record, error)
	ListSpecies(ctx context.Context) ([]models.Record, error)
}

// Writer persists species.
type Writer interface {
	UpsertSpecies(ctx context.Context, rec models.Record) (models.Record, error)
}

func timed[T any](m *metrics.Collector, op string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	m.RecordTiming(op, time.Since(start))
	return v, err
}
