package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/clubmate/lora-training/internal/adapters/http/api"
	app "github.com/clubmate/lora-training/internal/app"
	"github.com/clubmate/lora-training/internal/config"
	"github.com/clubmate/lora-training/internal/scan"
	"github.com/clubmate/lora-training/pkg/logger"
	"github.com/clubmate/lora-training/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
	statePathMode             = 0o600
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics;
	// the updater below collects custom system metrics instead.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	opts := []app.Option{
		app.WithLogger(log.Named("engine")),
		app.WithKFactor(cfg.KFactor),
		app.WithSampleSize(cfg.SampleSize),
		app.WithWeightExponent(cfg.WeightExponent),
	}
	if cfg.SelectionSeed != 0 {
		opts = append(opts, app.WithSelectionSeed(cfg.SelectionSeed))
	}
	engine := app.New(ctx, opts...)

	if err := loadState(ctx, engine, cfg.StatePath, log); err != nil {
		os.Stderr.WriteString("failed to load state: " + err.Error() + "\n")
		return
	}

	if cfg.ImagesDir != "" {
		paths, err := scan.Images(ctx, cfg.ImagesDir)
		if err != nil {
			os.Stderr.WriteString("failed to scan images: " + err.Error() + "\n")
			return
		}
		added, err := engine.AddImages(ctx, paths...)
		if err != nil {
			os.Stderr.WriteString("failed to register images: " + err.Error() + "\n")
			return
		}
		log.Info(ctx, "images registered",
			logger.String("dir", cfg.ImagesDir),
			logger.Int("found", len(paths)),
			logger.Int("new", added),
		)
	}

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(engine, engine, cfg.MaxRankingsLimit)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	if err := saveState(shutdownCtx, engine, cfg.StatePath, log); err != nil {
		log.Error(ctx, "state save failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// loadState imports engine state from path when the file exists. A missing
// file is a fresh session, not an error.
func loadState(ctx context.Context, engine *app.Engine, path string, log logger.Logger) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Info(ctx, "no saved state; starting fresh", logger.String("path", path))
		return nil
	}
	if err != nil {
		return err
	}

	if err := engine.ImportState(ctx, data); err != nil {
		return err
	}
	log.Info(ctx, "state loaded", logger.String("path", path), logger.Int("images", engine.Count(ctx)))
	return nil
}

// saveState exports engine state to path on shutdown.
func saveState(ctx context.Context, engine *app.Engine, path string, log logger.Logger) error {
	if path == "" {
		return nil
	}

	data, err := engine.ExportState(ctx)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, statePathMode); err != nil {
		return err
	}
	log.Info(ctx, "state saved", logger.String("path", path), logger.Int("bytes", len(data)))
	return nil
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
