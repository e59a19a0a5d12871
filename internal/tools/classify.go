package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ClassifyInput defines the input schema for the classify tool.
type ClassifyInput struct {
	Value any    `json:"value" jsonschema:"Any JSON value"`
	Field string `json:"field,omitempty" jsonschema:"Field name used as a hint, e.g. cap_size or fruiting_months"`
}

// ClassifyOutput is the classify tool result.
type ClassifyOutput struct {
	Tag   string `json:"tag"`
	Label string `json:"label,omitempty"`
	Unit  string `json:"unit,omitempty"`
}

// NewClassifyHandler creates the classify tool handler.
func NewClassifyHandler(deps *Dependencies) mcp.ToolHandlerFor[ClassifyInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ClassifyInput) (*mcp.CallToolResult, any, error) {
		out := ClassifyOutput{Tag: deps.Engine.Classify(input.Value, input.Field).String()}
		if input.Field != "" {
			label := deps.Engine.Label(input.Field)
			out.Label, out.Unit = label.Text, label.Unit
		}
		deps.log().Debug("classify completed", "field", input.Field, "tag", out.Tag)
		return JSONResult(out), nil, nil
	}
}
