package tools

import (
	"context"
	"errors"

	"github.com/Shadojus/amorph/internal/service"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RenderSpeciesInput defines the input schema for the render_species tool.
type RenderSpeciesInput struct {
	Slug        string `json:"slug" jsonschema:"Species slug, e.g. amanita-muscaria"`
	Perspective string `json:"perspective,omitempty" jsonschema:"Optional perspective id such as culinary or safety"`
}

// NewRenderSpeciesHandler creates the render_species tool handler.
func NewRenderSpeciesHandler(deps *Dependencies) mcp.ToolHandlerFor[RenderSpeciesInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input RenderSpeciesInput) (*mcp.CallToolResult, any, error) {
		if input.Slug == "" {
			return ErrorResult("Slug cannot be empty", "Use search_species to find a slug"), nil, nil
		}
		page, err := deps.Species.Render(ctx, input.Slug, input.Perspective)
		if errors.Is(err, service.ErrUnknownPerspective) {
			return toolError(deps, "render species", input.Perspective, err), nil, nil
		}
		if err != nil {
			return toolError(deps, "render species", input.Slug, err), nil, nil
		}
		return TextResult(page.Markup), nil, nil
	}
}

// SearchSpeciesInput defines the input schema for the search_species tool.
type SearchSpeciesInput struct {
	Query  string `json:"query" jsonschema:"Search text; may include perspective keywords"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Max results 1-100, default 10"`
	Markup bool   `json:"markup,omitempty" jsonschema:"Include the rendered grid markup"`
}

// SearchSpeciesOutput is the search_species tool result.
type SearchSpeciesOutput struct {
	Query        string         `json:"query"`
	Perspectives []string       `json:"perspectives,omitempty"`
	Count        int            `json:"count"`
	Species      []service.Card `json:"species"`
	Markup       string         `json:"markup,omitempty"`
}

// NewSearchSpeciesHandler creates the search_species tool handler.
func NewSearchSpeciesHandler(deps *Dependencies) mcp.ToolHandlerFor[SearchSpeciesInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchSpeciesInput) (*mcp.CallToolResult, any, error) {
		limit := input.Limit
		if limit <= 0 {
			limit = 10
		}
		if limit > 100 {
			return ErrorResult("Limit must be 1-100", "Reduce limit value"), nil, nil
		}

		grid, err := deps.Species.SearchGrid(ctx, input.Query, limit)
		if err != nil {
			return toolError(deps, "search", "", err), nil, nil
		}

		out := SearchSpeciesOutput{
			Query:        grid.Query,
			Perspectives: grid.Perspectives,
			Count:        len(grid.Cards),
			Species:      make([]service.Card, len(grid.Cards)),
		}
		for i, c := range grid.Cards {
			out.Species[i] = service.Card{Slug: c.Slug, Name: c.Name}
			if input.Markup {
				out.Species[i].Markup = c.Markup
			}
		}
		if input.Markup {
			out.Markup = grid.Markup
		}
		queryLog := input.Query
		if len(queryLog) > 30 {
			queryLog = queryLog[:30] + "..."
		}
		deps.log().Info("search completed", "query", queryLog, "results", out.Count)
		return JSONResult(out), nil, nil
	}
}
