// Package tools exposes species rendering and comparison as MCP tools.
package tools

import (
	"log/slog"

	"github.com/Shadojus/amorph/internal/engine"
	"github.com/Shadojus/amorph/internal/metrics"
	"github.com/Shadojus/amorph/internal/service"
)

// Dependencies holds the services the tool handlers share. Handlers capture
// it when they are built. Species and Compare may be nil for servers that
// only classify.
type Dependencies struct {
	Engine  *engine.Engine
	Species *service.SpeciesService
	Compare *service.CompareService
	Metrics *metrics.Collector
	Logger  *slog.Logger
}

func (d *Dependencies) log() *slog.Logger {
	if d == nil || d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

// perspectives lists the perspective ids of the species schema.
func (d *Dependencies) perspectives() []string {
	if d == nil || d.Species == nil {
		return nil
	}
	return d.Species.Schema().IDs()
}
