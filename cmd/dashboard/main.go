package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rickgao/share-dashboard/internal/api"
	"github.com/rickgao/share-dashboard/internal/config"
	"github.com/rickgao/share-dashboard/internal/display"
	"github.com/rickgao/share-dashboard/internal/poller"
	"github.com/rickgao/share-dashboard/internal/server"
	"github.com/rickgao/share-dashboard/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/dashboard.yaml", "path to config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("starting share dashboard",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"api_url", cfg.API.BaseURL,
		"interval", cfg.Poller.Interval,
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

	// Create API client
	opts := []api.ClientOption{
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
	}
	if cfg.API.MaxRetries > 0 {
		opts = append(opts, api.WithRetries(cfg.API.MaxRetries, time.Second))
	}
	apiClient := api.NewClient(cfg.API.BaseURL, opts...)

	surface := display.New()

	// Start the dashboard server before the first cycle so the page is
	// reachable while the backend is slow.
	srv := server.New(server.Config{
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		TableID:        cfg.Server.TableID,
		InstanceID:     cfg.Instance.ID,
		MetricsEnabled: cfg.Metrics.IsEnabled(),
		MetricsPath:    cfg.Metrics.Path,
	}, surface, logger)

	go func() {
		if err := srv.ListenAndServe(); err != nil {
			logger.Error("dashboard server error", "error", err)
			cancel()
		}
	}()

	p := poller.New(poller.Config{
		Interval: cfg.Poller.Interval,
		Timeout:  cfg.Poller.Timeout,
	}, apiClient, surface, logger)

	if err := p.Start(ctx); err != nil {
		logger.Error("failed to start poller", "error", err)
		os.Exit(1)
	}

	logger.Info("share dashboard running",
		"instance_id", cfg.Instance.ID,
		"url", fmt.Sprintf("http://localhost:%d/", cfg.Server.Port),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := p.Stop(shutdownCtx); err != nil {
		logger.Warn("poller did not stop cleanly", "error", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("dashboard server did not stop cleanly", "error", err)
	}

	stats := p.Stats()
	logger.Info("share dashboard stopped",
		"cycles", stats.Cycles,
		"failures", stats.Failures,
	)
}
