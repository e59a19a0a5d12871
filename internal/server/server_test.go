package server_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Shadojus/amorph/internal/engine"
	"github.com/Shadojus/amorph/internal/metrics"
	"github.com/Shadojus/amorph/internal/server"
	"github.com/Shadojus/amorph/internal/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerCreation(t *testing.T) {
	srv := server.New("test-version", nil)
	require.NotNil(t, srv, "server should not be nil")
	require.NotNil(t, srv.MCPServer(), "underlying MCP server should not be nil")
}

func TestServerWithInMemoryTransport(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	srv := server.New("0.1.0-test", logger)
	srv.Setup(&tools.Dependencies{Engine: engine.New(), Logger: logger})

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.MCPServer().Run(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err, "client should connect successfully")

	initResult := session.InitializeResult()
	require.NotNil(t, initResult, "initialize result should not be nil")
	assert.Equal(t, server.Name, initResult.ServerInfo.Name)
	assert.Equal(t, "0.1.0-test", initResult.ServerInfo.Version)
	assert.Contains(t, initResult.Instructions, "compare_species")

	toolsResult, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, toolsResult.Tools, 7)

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "classify",
		Arguments: map[string]any{"value": "https://example.org/cap.jpg"},
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, result.Content[0].(*mcp.TextContent).Text, `"tag": "image"`)

	require.NoError(t, session.Close())
	cancel()

	select {
	case err := <-serverErr:
		// EOF is expected when client disconnects
		if err != nil {
			t.Logf("server stopped with: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("server did not stop within timeout")
	}

	assert.Contains(t, logs.String(), "method=tools/call")
	assert.Contains(t, logs.String(), "tool=classify")
	assert.Contains(t, logs.String(), "component=mcp")
}

func TestServer_ToolErrorsAndMetrics(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m := metrics.NewCollector()

	srv := server.New("0.1.0-test", logger)
	srv.Setup(&tools.Dependencies{Engine: engine.New(), Logger: logger})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	session := connectInMemory(t, ctx, srv)
	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "stats", Arguments: map[string]any{}})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, logs.String(), "tool returned error")
	assert.Contains(t, logs.String(), "Statistics are not collected")

	timed := server.New("0.1.0-test", logger)
	timed.Setup(&tools.Dependencies{Engine: engine.New(), Metrics: m, Logger: logger})
	session = connectInMemory(t, ctx, timed)
	_, err = session.CallTool(ctx, &mcp.CallToolParams{Name: "classify", Arguments: map[string]any{"value": 3}})
	require.NoError(t, err)

	snap := m.Snapshot()
	require.NotNil(t, snap.ToolCall)
	assert.Equal(t, int64(1), snap.ToolCall.Count)
}

func TestServer_StreamableHTTP(t *testing.T) {
	srv := server.New("0.1.0-test", nil)
	srv.Setup(&tools.Dependencies{Engine: engine.New()})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: ts.URL}, nil)
	require.NoError(t, err)
	defer session.Close()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "palette", Arguments: map[string]any{}})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, result.Content[0].(*mcp.TextContent).Text, "#6366f1")
}

func TestServer_UnknownTransport(t *testing.T) {
	err := server.New("0.1.0-test", nil).Run(context.Background(), "carrier-pigeon", "")
	assert.ErrorContains(t, err, "unknown transport")
}

func connectInMemory(t *testing.T, ctx context.Context, srv *server.Server) *mcp.ClientSession {
	t.Helper()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	go func() {
		_ = srv.MCPServer().Run(ctx, serverTransport)
	}()
	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}
