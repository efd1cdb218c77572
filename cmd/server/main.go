package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/p-n-ai/pathforge/internal/curriculum"
	"github.com/p-n-ai/pathforge/internal/generator"
	"github.com/p-n-ai/pathforge/internal/metrics"
	"github.com/p-n-ai/pathforge/internal/platform/cache"
	"github.com/p-n-ai/pathforge/internal/platform/config"
	"github.com/p-n-ai/pathforge/internal/platform/database"
	"github.com/p-n-ai/pathforge/internal/realtime"
	"github.com/p-n-ai/pathforge/internal/server"
	"github.com/p-n-ai/pathforge/internal/service"
	"github.com/p-n-ai/pathforge/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg.Log))

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	loader, err := curriculum.NewLoader(cfg.CurriculumPath)
	if err != nil {
		return fmt.Errorf("loading curriculum templates: %w", err)
	}

	deps := dependencies{}
	svcCfg := service.Config{
		Generator:           generator.New(loader, cfg.Engine.Seed),
		RecommendationLimit: cfg.Engine.RecommendationLimit,
		DefaultDailyHours:   cfg.Engine.DefaultDailyHours,
		CacheTTL:            cfg.Cache.TTL,
	}

	switch cfg.Storage.Backend {
	case config.StoragePostgres:
		db, err := database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			return err
		}
		defer db.Close()
		if cfg.Database.Migrate {
			if err := db.Migrate(ctx, store.Schema); err != nil {
				return err
			}
		}
		pathStore, err := store.NewPostgresStore(db.Pool)
		if err != nil {
			return err
		}
		svcCfg.Store = pathStore
		svcCfg.Events = store.NewPostgresEventLogger(db.Pool)
		deps.db = db
	default:
		svcCfg.Store = store.NewMemoryStore()
		svcCfg.Events = store.NewMemoryEventLogger()
	}

	if cfg.Cache.Enabled {
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			return err
		}
		defer c.Close()
		svcCfg.Cache = c
		deps.cache = c
	}

	hub := realtime.NewHub()
	svcCfg.Publisher = hub

	api, err := server.New(service.New(svcCfg), hub)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	mux := newMux(deps)
	api.Register(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Instrument(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting",
			"addr", srv.Addr,
			"storage", cfg.Storage.Backend,
			"cache", cfg.Cache.Enabled,
			"templates", len(loader.Tracks()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	return nil
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// dependencies are the backing services readyz checks. Nil entries are
// not configured and skipped.
type dependencies struct {
	db    *database.DB
	cache *cache.Cache
}

func (d dependencies) checkers() map[string]healthChecker {
	checks := make(map[string]healthChecker)
	if d.db != nil {
		checks["database"] = d.db
	}
	if d.cache != nil {
		checks["cache"] = d.cache
	}
	return checks
}

// newMux creates the HTTP router with health check and metrics endpoints.
func newMux(deps dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", readyzHandler(deps.checkers()))
	mux.Handle("GET /metrics", metrics.Handler())
	return mux
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func readyzHandler(checks map[string]healthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		for name, c := range checks {
			if err := c.HealthCheck(ctx); err != nil {
				slog.Warn("readiness check failed", "dependency", name, "error", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				fmt.Fprintf(w, `{"status":"unavailable","dependency":%q}`, name)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}
}
