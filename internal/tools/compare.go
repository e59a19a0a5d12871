package tools

import (
	"context"

	"github.com/Shadojus/amorph/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CompareSpeciesInput defines the input schema for the compare_species tool.
type CompareSpeciesInput struct {
	Selections []models.Selection `json:"selections" jsonschema:"Fields to compare: entityId is the species slug, value the field value"`
	Order      []string           `json:"order,omitempty" jsonschema:"Species slugs in color order; defaults to first-selection order"`
	Fill       bool               `json:"fill,omitempty" jsonschema:"Fetch every selected field for every selected species"`
}

// NewCompareSpeciesHandler creates the compare_species tool handler.
func NewCompareSpeciesHandler(deps *Dependencies) mcp.ToolHandlerFor[CompareSpeciesInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CompareSpeciesInput) (*mcp.CallToolResult, any, error) {
		resp, err := deps.Compare.Compare(ctx, models.CompareRequest{
			Selections: input.Selections,
			Order:      input.Order,
			Fill:       input.Fill,
		})
		if err != nil {
			return toolError(deps, "compare", "", err), nil, nil
		}
		return JSONResult(resp), nil, nil
	}
}
