// Package main provides the entry point for the amorph MCP server.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/Shadojus/amorph/internal/app"
	"github.com/Shadojus/amorph/internal/config"
	"github.com/Shadojus/amorph/internal/server"
)

const version = "0.1.0"

func main() {
	// Load configuration; flags override the environment
	cfg := config.Load()
	flag.StringVar(&cfg.MCPTransport, "transport", cfg.MCPTransport, "transport: stdio or http")
	flag.StringVar(&cfg.MCPAddr, "addr", cfg.MCPAddr, "listen address for the http transport")
	flag.Parse()

	// Setup logger (dual output: stderr text + file JSON)
	logger, cleanup := config.SetupLogger(cfg.LogOptions())
	defer cleanup()

	// Log startup info
	logger.Info("amorph-mcp starting",
		"version", version,
		"store", cfg.Store,
		"transport", cfg.MCPTransport,
		"data_dir", cfg.DataDir,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Open the store and build the services
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer func() {
		logger.Info("closing store")
		_ = a.Close(context.Background())
	}()

	// Create server, add middleware and register tools
	srv := server.New(version, logger)
	srv.Setup(a.Tools())

	// Log ready state
	logger.Info("server ready, awaiting connections")

	// Run server (blocks until disconnect or context cancelled)
	if err := srv.Run(ctx, cfg.MCPTransport, cfg.MCPAddr); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
