package server

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/Shadojus/amorph/internal/metrics"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// maxLogLen bounds logged tool arguments and error texts.
const maxLogLen = 200

// slowRequestThreshold is the duration above which requests are logged at WARN level.
const slowRequestThreshold = 100 * time.Millisecond

// Middleware logs every request with its duration and records tool call
// timings into m, which may be nil. Tool calls that return an error result
// are logged at WARN with the result text, so failed renders show up
// without turning into protocol errors.
func Middleware(logger *slog.Logger, m *metrics.Collector) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			start := time.Now()
			result, err := next(ctx, method, req)
			elapsed := time.Since(start)

			attrs := []any{"method", method, "duration_ms", elapsed.Milliseconds()}
			if p := callParams(req); p != nil {
				m.RecordTiming(metrics.OpToolCall, elapsed)
				attrs = append(attrs, "tool", p.Name)
				if len(p.Arguments) > 0 {
					attrs = append(attrs, "arguments", truncate(string(p.Arguments), maxLogLen))
				}
			}

			switch {
			case err != nil:
				logger.Error("request failed", append(attrs, "error", err.Error())...)
			case isToolError(result):
				logger.Warn("tool returned error", append(attrs, "result", truncate(resultText(result), maxLogLen))...)
			case elapsed > slowRequestThreshold:
				logger.Warn("slow request", attrs...)
			default:
				logger.Debug("request completed", attrs...)
			}
			return result, err
		}
	}
}

// callParams returns the parameters of a tools/call request, or nil.
func callParams(req mcp.Request) *mcp.CallToolParamsRaw {
	if req == nil {
		return nil
	}
	p, _ := req.GetParams().(*mcp.CallToolParamsRaw)
	return p
}

func isToolError(result mcp.Result) bool {
	r, ok := result.(*mcp.CallToolResult)
	return ok && r != nil && r.IsError
}

// resultText returns the first text content of a tool result.
func resultText(result mcp.Result) string {
	r, ok := result.(*mcp.CallToolResult)
	if !ok || r == nil {
		return ""
	}
	for _, c := range r.Content {
		if t, ok := c.(*mcp.TextContent); ok {
			return t.Text
		}
	}
	return ""
}

// truncate shortens s to at most maxLen bytes, ending in "..." when cut.
// It never splits a UTF-8 sequence.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	if maxLen < 3 {
		cut = maxLen
	}
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if maxLen < 3 {
		return s[:cut]
	}
	return s[:cut] + "..."
}
