// Package main provides the HTTP server for Amorph.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shadojus/amorph/internal/app"
	"github.com/Shadojus/amorph/internal/config"
	"github.com/Shadojus/amorph/internal/web"
)

func main() {
	// Parse flags
	wipeDB := flag.Bool("wipe", false, "wipe all species from the database on startup (testing only)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()

	// Setup logger (dual output: stderr text + file JSON)
	logger, cleanup := config.SetupLogger(cfg.LogOptions())
	defer cleanup()

	logger.Info("starting amorph-server", "port", cfg.ServerPort, "store", cfg.Store)

	// Open the store and build the services
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	a, err := app.New(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}()

	// Wipe database if requested (via flag or env var)
	if *wipeDB || os.Getenv("AMORPH_WIPE_DB") == "true" {
		if a.DB == nil {
			logger.Warn("wipe requested but the store is not SurrealDB, ignoring")
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			err := a.DB.WipeData(ctx)
			cancel()
			if err != nil {
				logger.Error("failed to wipe database", "error", err)
				os.Exit(1)
			}
		}
	}

	handler := web.NewHandler(a.Engine, a.Species, a.Compare, a.Metrics, logger)
	handler.SetHealthCheck(a.Ping)

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      handler.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("species pages available", "url", fmt.Sprintf("http://localhost:%d/species/{slug}", cfg.ServerPort))
		logger.Info("compare endpoint available", "url", fmt.Sprintf("http://localhost:%d/api/compare", cfg.ServerPort))

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
