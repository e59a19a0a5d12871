package tools

import (
	"context"

	"github.com/Shadojus/amorph/internal/compare"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// PaletteInput defines the input schema for the palette tool.
type PaletteInput struct {
	Entities []string `json:"entities,omitempty" jsonschema:"Species slugs in selection order; each gets the color it would have in a comparison"`
}

// PaletteOutput is the palette tool result.
type PaletteOutput struct {
	Colors      []string          `json:"colors"`
	Assignments map[string]string `json:"assignments,omitempty"`
}

// NewPaletteHandler creates the palette tool handler. It reports the entity
// color order and, for the given slugs, the color each one is assigned.
func NewPaletteHandler(deps *Dependencies) mcp.ToolHandlerFor[PaletteInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input PaletteInput) (*mcp.CallToolResult, any, error) {
		out := PaletteOutput{Colors: compare.Palette[:]}
		if len(input.Entities) > 0 {
			colors := compare.FromOrder(input.Entities)
			out.Assignments = make(map[string]string, len(input.Entities))
			for _, id := range input.Entities {
				out.Assignments[id] = colors.Color(id)
			}
		}
		deps.log().Debug("palette requested", "entities", len(input.Entities))
		return JSONResult(out), nil, nil
	}
}

// StatsInput defines the input schema for the stats tool.
type StatsInput struct{}

// NewStatsHandler creates the stats tool handler, which reports render and
// store timings and per-tag render counts.
func NewStatsHandler(deps *Dependencies) mcp.ToolHandlerFor[StatsInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input StatsInput) (*mcp.CallToolResult, any, error) {
		if deps.Metrics == nil {
			return ErrorResult("Statistics are not collected", "Start the server with a metrics collector"), nil, nil
		}
		return JSONResult(deps.Metrics.Snapshot()), nil, nil
	}
}
