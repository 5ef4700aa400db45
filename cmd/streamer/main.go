package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rickgao/stock-stream/internal/broadcast"
	"github.com/rickgao/stock-stream/internal/cache"
	"github.com/rickgao/stock-stream/internal/config"
	"github.com/rickgao/stock-stream/internal/connection"
	"github.com/rickgao/stock-stream/internal/feed"
	"github.com/rickgao/stock-stream/internal/server"
	"github.com/rickgao/stock-stream/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/streamer.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting streamer",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration; fall back to defaults when no file is present
	cfg, err := config.LoadAndValidate(*configPath)
	if errors.Is(err, os.ErrNotExist) {
		logger.Info("config file not found, using defaults", "path", *configPath)
		cfg = config.Default()
		err = cfg.Validate()
	}
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"listen", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		"feed_url", cfg.Feed.BaseURL,
		"broadcast_interval", cfg.Broadcast.Interval,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Create upstream feed client
	feedClient := feed.NewClient(
		cfg.Feed.BaseURL,
		cfg.Feed.APIKey,
		feed.WithLogger(logger),
		feed.WithTimeout(cfg.Feed.Timeout),
	)

	// Core components
	registry := connection.NewRegistry(logger)
	store := cache.New()

	scheduler := broadcast.New(broadcast.Config{
		Interval:     cfg.Broadcast.Interval,
		FetchTimeout: cfg.Broadcast.FetchTimeout,
		Concurrency:  cfg.Broadcast.Concurrency,
	}, feedClient, registry, store, logger)

	srv := server.New(server.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
		Client: connection.ClientConfig{
			SendBufferSize: cfg.Server.SendBufferSize,
			WriteTimeout:   cfg.Server.WriteTimeout,
			ReadLimit:      cfg.Server.ReadLimit,
		},
	}, registry, store, scheduler, logger)

	// Start health/metrics server early so startup is observable
	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: createHealthHandler(cfg, registry, scheduler, logger),
	}

	go func() {
		logger.Info("starting health server", "port", cfg.Metrics.Port)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	if cfg.Server.Disabled {
		logger.Warn("stream server disabled by config, serving health endpoint only")
	} else {
		if err := srv.Start(ctx); err != nil {
			logger.Error("failed to start stream server", "error", err)
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer shutdownCancel()
			srv.Stop(shutdownCtx)
		}()

		logger.Info("streamer running",
			"addr", srv.Addr().String(),
			"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Metrics.Port),
		)
	}

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	// Graceful shutdown of health server
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	healthServer.Shutdown(shutdownCtx)

	logger.Info("streamer stopped")
}

// createHealthHandler creates the HTTP handler for health checks and metrics.
func createHealthHandler(cfg *config.StreamerConfig, registry *connection.Registry, scheduler *broadcast.Scheduler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	mux.Handle(metricsPath, promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		regStats := registry.Stats()
		schedStats := scheduler.Stats()

		health := struct {
			Status     string         `json:"status"`
			Components map[string]any `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]any),
		}

		health.Components["registry"] = map[string]any{
			"connections":   regStats.Connections,
			"subscriptions": regStats.Subscriptions,
		}
		health.Components["scheduler"] = map[string]any{
			"state":        schedStats.State,
			"cycles":       schedStats.Cycles,
			"fetch_errors": schedStats.FetchErrors,
		}

		if cfg.Server.Disabled {
			health.Status = "degraded"
		} else if schedStats.State != broadcast.StateRunning.String() {
			health.Status = "unhealthy"
		}

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	mux.HandleFunc("/debug/symbols", func(w http.ResponseWriter, r *http.Request) {
		symbols := registry.Symbols()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"count":   len(symbols),
			"symbols": symbols,
		})
	})

	return mux
}
