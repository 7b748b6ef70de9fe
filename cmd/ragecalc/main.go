package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/ragecalc/internal/api"
	"github.com/udisondev/ragecalc/internal/config"
	"github.com/udisondev/ragecalc/internal/data"
	"github.com/udisondev/ragecalc/internal/db"
	"github.com/udisondev/ragecalc/internal/model"
	"github.com/udisondev/ragecalc/internal/session"
)

const ConfigPath = "config/ragecalc.yaml"

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load config
	cfgPath := ConfigPath
	if p := os.Getenv("RAGECALC_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadCalculator(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Configure slog
	level, _ := config.ParseLogLevel(cfg.LogLevel) // validated by LoadCalculator
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})))

	slog.Info("rage calculator starting", "config", cfgPath, "backend", cfg.Store.Backend)

	if err := data.LoadCatalog(); err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	// Open settings store
	store, err := db.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("closing store", "error", err)
		}
	}()
	slog.Info("store opened", "backend", cfg.Store.Backend)

	sessions := session.NewManager(store, model.DamageConfig{DamageReduction: cfg.DefaultDamageReduction})
	sessions.Load(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewServer(sessions, store).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		// websocket streams end when ctx is cancelled
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting http server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		slog.Info("http server stopped")
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
