// Package server runs the Amorph MCP server over stdio or streamable HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Shadojus/amorph/internal/config"
	"github.com/Shadojus/amorph/internal/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Name is the MCP implementation name.
const Name = "amorph"

// Transports accepted by Run.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// shutdownTimeout bounds draining of open HTTP sessions.
const shutdownTimeout = 10 * time.Second

const instructions = `Amorph renders species data. Use search_species to find slugs, ` +
	`render_species to render one species, compare_species to compare fields ` +
	`across species and classify to see how a value would be displayed. ` +
	`palette returns the color each species gets in a comparison.`

// Server is the MCP server with its tools and logging.
type Server struct {
	mcp    *mcp.Server
	logger *slog.Logger
}

// New creates a server reporting version. Tools are added by Setup.
func New(version string, logger *slog.Logger) *Server {
	return &Server{
		mcp: mcp.NewServer(
			&mcp.Implementation{Name: Name, Version: version},
			&mcp.ServerOptions{Instructions: instructions},
		),
		logger: config.Component(logger, "mcp"),
	}
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Setup installs the request middleware and registers every tool. Tool
// call timings go to deps.Metrics.
func (s *Server) Setup(deps *tools.Dependencies) {
	if deps == nil {
		s.mcp.AddReceivingMiddleware(Middleware(s.logger, nil))
		return
	}
	s.mcp.AddReceivingMiddleware(Middleware(s.logger, deps.Metrics))
	tools.RegisterAll(s.mcp, deps)
}

// Run serves on the given transport until ctx is cancelled or, for stdio,
// the client disconnects. addr is only used by TransportHTTP.
func (s *Server) Run(ctx context.Context, transport, addr string) error {
	switch transport {
	case "", TransportStdio:
		s.logger.Info("starting MCP server", "transport", TransportStdio)
		return s.mcp.Run(ctx, &mcp.StdioTransport{})
	case TransportHTTP:
		return s.serveHTTP(ctx, addr)
	default:
		return errors.New("unknown transport " + transport)
	}
}

// Handler returns the streamable HTTP handler. Every session shares this
// server and its tools.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.mcp }, nil)
}

func (s *Server) serveHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting MCP server", "transport", TransportHTTP, "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
