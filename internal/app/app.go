// Package app assembles the store, render engine and services from a
// Config. The HTTP server, the MCP server and the CLI share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Shadojus/amorph/internal/catalog"
	"github.com/Shadojus/amorph/internal/config"
	"github.com/Shadojus/amorph/internal/db"
	"github.com/Shadojus/amorph/internal/engine"
	"github.com/Shadojus/amorph/internal/metrics"
	"github.com/Shadojus/amorph/internal/service"
	"github.com/Shadojus/amorph/internal/tools"
)

// ErrReadOnly is returned by Importer when the store cannot be written.
var ErrReadOnly = errors.New("store is read-only: set AMORPH_STORE=surreal to import")

// App holds the assembled components.
type App struct {
	Config  config.Config
	Schema  *config.Schema
	Metrics *metrics.Collector
	Engine  *engine.Engine
	Store   service.Store
	Species *service.SpeciesService
	Compare *service.CompareService
	Logger  *slog.Logger

	// DB is set when the store is SurrealDB.
	DB *db.Client
}

// New loads the schema, opens the configured store and builds the services.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	schema, err := config.LoadSchema(cfg.SchemaFile)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	a := &App{
		Config:  cfg,
		Schema:  schema,
		Metrics: metrics.NewCollector(),
		Logger:  logger,
	}
	a.Engine = NewEngine(cfg, schema, a.Metrics, logger)

	switch cfg.Store {
	case config.StoreSurreal:
		client, err := db.NewClient(ctx, db.Config{
			URL:       cfg.SurrealDBURL,
			Namespace: cfg.SurrealDBNamespace,
			Database:  cfg.SurrealDBDatabase,
			Username:  cfg.SurrealDBUser,
			Password:  cfg.SurrealDBPass,
			AuthLevel: cfg.SurrealDBAuthLevel,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := client.InitSchema(ctx); err != nil {
			_ = client.Close(ctx)
			return nil, fmt.Errorf("initialize schema: %w", err)
		}
		a.DB = client
		a.Store = client
	default:
		store, err := catalog.LoadDir(ctx, cfg.DataDir, logger)
		if err != nil {
			return nil, fmt.Errorf("load species: %w", err)
		}
		logger.Info("species loaded", "dir", cfg.DataDir, "count", store.Len())
		a.Store = store
	}

	a.Species = service.NewSpeciesService(a.Store, a.Engine, schema, a.Metrics, logger)
	a.Compare = service.NewCompareService(a.Store, a.Engine, cfg.SelectionCap, a.Metrics, logger)
	return a, nil
}

// NewEngine builds a render engine from the configuration and schema.
func NewEngine(cfg config.Config, schema *config.Schema, m *metrics.Collector, logger *slog.Logger) *engine.Engine {
	return engine.New(
		engine.WithUnits(schema.Units),
		engine.WithReserved(schema.Reserved...),
		engine.WithPayloadCap(cfg.PayloadCap),
		engine.WithMetrics(m),
		engine.WithLogger(logger),
	)
}

// Tools returns the dependencies of the MCP tool handlers.
func (a *App) Tools() *tools.Dependencies {
	return &tools.Dependencies{
		Engine:  a.Engine,
		Species: a.Species,
		Compare: a.Compare,
		Metrics: a.Metrics,
		Logger:  a.Logger,
	}
}

// Importer returns the import service, or ErrReadOnly for the in-memory
// store.
func (a *App) Importer() (*service.ImportService, error) {
	if a.DB == nil {
		return nil, ErrReadOnly
	}
	return service.NewImportService(a.DB, a.Logger), nil
}

// Ping reports whether the species store is reachable. The in-memory
// catalog always is.
func (a *App) Ping(ctx context.Context) error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Ping(ctx)
}

// Close releases the database connection, if any.
func (a *App) Close(ctx context.Context) error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close(ctx)
}
