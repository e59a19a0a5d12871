package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/Shadojus/amorph/internal/compare"
	"github.com/Shadojus/amorph/internal/models"
	"github.com/Shadojus/amorph/internal/service"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ErrorResult creates a tool error result. A non-empty hint is appended as
// "{msg}. {hint}" so the caller knows how to retry.
func ErrorResult(msg, hint string) *mcp.CallToolResult {
	text := msg
	if hint != "" {
		text = msg + ". " + hint
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

// TextResult creates a success result with text content.
func TextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// JSONResult encodes v as indented JSON text content.
func JSONResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ErrorResult("Failed to encode result", err.Error())
	}
	return TextResult(string(data))
}

// FormatList joins items with commas for hints.
func FormatList(items []string) string {
	return strings.Join(items, ", ")
}

// failures maps service errors onto messages and recovery hints. Hints
// that need data from the dependencies are built by hintFor.
var failures = []struct {
	target error
	msg    string
	hint   string
}{
	{models.ErrNotFound, "Species not found", "Use search_species to find a slug"},
	{service.ErrUnknownPerspective, "Unknown perspective", ""},
	{service.ErrNoSelections, "No selections given", "Pass at least one {entityId, fieldName, value}"},
	{compare.ErrInvalidSelection, "Invalid selection", "Every selection needs entityId and fieldName"},
	{compare.ErrSelectionFull, "Too many selections", "Compare fewer fields at once"},
	{context.DeadlineExceeded, "Request timed out", "Try again with fewer species"},
}

// toolError turns a failed service call into an error result. subject names
// what the call was about (a slug or perspective) and is appended to the
// message. Unexpected errors are logged.
func toolError(deps *Dependencies, op, subject string, err error) *mcp.CallToolResult {
	for _, f := range failures {
		if !errors.Is(err, f.target) {
			continue
		}
		msg := f.msg
		if subject != "" {
			msg += ": " + subject
		}
		hint := f.hint
		if f.target == service.ErrUnknownPerspective {
			hint = "Valid perspectives: " + FormatList(deps.perspectives())
		}
		if f.target == compare.ErrSelectionFull || f.target == compare.ErrInvalidSelection {
			msg = err.Error()
		}
		return ErrorResult(msg, hint)
	}
	deps.log().Error(op+" failed", "subject", subject, "error", err)
	return ErrorResult(strings.ToUpper(op[:1])+op[1:]+" failed", "The species store may be unavailable")
}
