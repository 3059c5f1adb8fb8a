package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gyaneshwarpardhi/casetimeline/internal/api"
	"github.com/gyaneshwarpardhi/casetimeline/internal/casefile"
	"github.com/gyaneshwarpardhi/casetimeline/internal/config"
	"github.com/gyaneshwarpardhi/casetimeline/internal/engine"
	"github.com/gyaneshwarpardhi/casetimeline/internal/metrics"
)

func main() {
	cfgPath := flag.String("config", "configs/timeline.yaml", "Path to service YAML config")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	casesPath := flag.String("cases", "", "Path to case file (overrides config)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// ── Load config ──────────────────────────────────────────────────────────
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *casesPath != "" {
		cfg.Cases.Path = *casesPath
	}
	if err := config.Validate(cfg); err != nil {
		slog.Error("config validation failed", "err", err)
		os.Exit(1)
	}

	// ── Case store ────────────────────────────────────────────────────────────
	store, err := casefile.Open(cfg.Cases.Path, logger)
	if err != nil {
		slog.Error("failed to open case file", "path", cfg.Cases.Path, "err", err)
		os.Exit(1)
	}
	slog.Info("case file loaded", "path", cfg.Cases.Path, "cases", len(store.CaseIDs()))
	trackReloads(store)

	if cfg.Cases.Watch {
		stopWatch, err := store.Watch()
		if err != nil {
			slog.Warn("case file watcher unavailable (hot-reload disabled)", "err", err)
		} else {
			defer stopWatch()
		}
	}

	// ── Engine ────────────────────────────────────────────────────────────────
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng := engine.New(ctx, engine.FromStore(store), cfg.Engine, engine.WithLogger(logger))

	// ── HTTP server ───────────────────────────────────────────────────────────
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.New(eng, store, logger),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutMs) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutMs) * time.Millisecond,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down…")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	cancel() // stop fetch workers
	eng.Shutdown()
	slog.Info("goodbye")
}

// trackReloads keeps the case file metrics in step with the store, whether
// the reload came from the watcher or from POST /v1/cases/reload.
func trackReloads(store *casefile.Store) {
	metrics.CasesLoaded.Set(float64(len(store.CaseIDs())))
	store.OnChange(func(caseCount int) {
		metrics.CaseFileReloads.Inc()
		metrics.CasesLoaded.Set(float64(caseCount))
		slog.Debug("case metrics updated", "cases", caseCount)
	})
}
