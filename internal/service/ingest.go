package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Shadojus/amorph/internal/catalog"
	"github.com/Shadojus/amorph/internal/config"
	"golang.org/x/sync/errgroup"
)

// ImportService loads species documents into a persistent store.
type ImportService struct {
	writer Writer
	logger *slog.Logger
}

// NewImportService creates an import service writing to w.
func NewImportService(w Writer, logger *slog.Logger) *ImportService {
	return &ImportService{writer: w, logger: config.Component(logger, "import")}
}

// ImportOptions configures a directory import.
type ImportOptions struct {
	// DryRun parses the documents without writing them
	DryRun bool
	// Concurrency sets number of parallel writers (default 4)
	Concurrency int
}

// ImportResult summarizes an import.
type ImportResult struct {
	Species  int
	Imported int
	Errors   []string
}

// ImportDirectory parses every species document under dir and upserts it.
// A failing species is recorded in Errors and does not stop the others;
// a document that cannot be parsed aborts before anything is written.
func (s *ImportService) ImportDirectory(ctx context.Context, dir string, opts ImportOptions) (*ImportResult, error) {
	cat, err := catalog.LoadDir(ctx, dir, s.logger)
	if err != nil {
		return nil, err
	}
	records, err := cat.ListSpecies(ctx)
	if err != nil {
		return nil, err
	}
	result := &ImportResult{Species: len(records)}
	if opts.DryRun {
		return result, nil
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, rec := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, err := s.writer.UpsertSpecies(gctx, rec)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Warn("import failed", "slug", rec.Key(), "error", err)
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", rec.Key(), err))
				return nil
			}
			result.Imported++
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}
	s.logger.Info("import complete", "dir", dir, "species", result.Species, "imported", result.Imported, "errors", len(result.Errors))
	return result, nil
}
