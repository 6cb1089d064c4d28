package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/okian/gridiron/internal/adapters/dataset"
	"github.com/okian/gridiron/internal/adapters/http/api"
	"github.com/okian/gridiron/internal/adapters/http/site"
	"github.com/okian/gridiron/internal/adapters/http/swagger"
	app "github.com/okian/gridiron/internal/app"
	"github.com/okian/gridiron/internal/config"
	"github.com/okian/gridiron/pkg/logger"
	"github.com/okian/gridiron/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	serviceMetricsInterval    = 30 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.InitWithEncoding(cfg.LogEncoding); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	metrics.Configure(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithMetricsEnabled(cfg.MetricsEnabled),
		metrics.WithRefreshInterval(cfg.MetricsRefreshInterval),
	)

	err = run(ctx, cfg, logger.Get())
	if syncErr := logger.Sync(); syncErr != nil {
		os.Stderr.WriteString("failed to sync logger: " + syncErr.Error() + "\n")
	}
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// run loads the dataset, serves HTTP until ctx is cancelled, then shuts
// down gracefully. A dataset that cannot be loaded returns before listening.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	svc, err := startService(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(ctx, svc, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// startService builds the configured source and loads it.
func startService(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Service, error) {
	src, closeSource, err := newSource(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	defer closeSource()

	svc := app.New(
		app.WithLogger(log),
		app.WithSource(src),
		app.WithBigUpsetSpread(cfg.BigUpsetSpread),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start service: %w", err)
	}
	return svc, nil
}

// newSource picks the SQLite database when configured and the blob bucket
// otherwise. The returned func releases the source once loaded.
func newSource(ctx context.Context, cfg *config.Config, log logger.Logger) (dataset.Source, func(), error) {
	if cfg.DatasetSQLite != "" {
		log.Info(ctx, "using sqlite dataset", logger.String("path", cfg.DatasetSQLite))
		return dataset.NewSQLiteSource(cfg.DatasetSQLite, cfg.Seasons, log.Named("sqlite")), func() {}, nil
	}

	bucket, err := dataset.OpenBucket(ctx, cfg.DatasetURL)
	if err != nil {
		return nil, nil, err
	}
	log.Info(ctx, "using bucket dataset",
		logger.String("url", cfg.DatasetURL),
		logger.String("prefix", cfg.DatasetPrefix),
		logger.Any("seasons", cfg.Seasons))

	loader := dataset.NewLoader(bucket,
		dataset.WithPrefix(cfg.DatasetPrefix),
		dataset.WithSeasons(cfg.Seasons...),
		dataset.WithConcurrency(cfg.LoadConcurrency),
		dataset.WithLogger(log.Named("loader")),
	)
	return loader, func() {
		if err := bucket.Close(); err != nil {
			log.Warn(ctx, "close bucket", logger.Error(err))
		}
	}, nil
}

// newRouter registers the pages, the JSON API and the API docs.
func newRouter(ctx context.Context, svc *app.Service, log logger.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(api.RequestIDMiddleware)

	// Register API docs under /api-docs
	swagger.Register(ctx, router)

	// Register API routes with the service dependency.
	api.NewServer(svc, svc, api.WithLogger(log.Named("api"))).Register(ctx, router)

	// Pages last: they own "/".
	site.New(svc, site.WithLogger(log.Named("site"))).Register(ctx, router)

	return router
}

// startSystemMetricsUpdater samples runtime gauges every metrics refresh interval.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.RefreshInterval())
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

// startServiceMetricsUpdater periodically republishes dataset gauges from
// the service stats.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
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

// updateServiceMetrics updates dataset metrics from the service stats.
func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()

	if files, ok := stats["files"].(int); ok {
		metrics.UpdateDatasetFiles(files)
	}
	if plays, ok := stats["plays"].(int); ok {
		metrics.UpdateDatasetRows(plays)
	}
	seasons, okSeasons := stats["seasons"].([]int)
	games, okGames := stats["games"].(int)
	if okSeasons && okGames {
		metrics.UpdateDatasetShape(len(seasons), games)
	}
}
