package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/brokerage-ledger/internal/api"
	"github.com/example/brokerage-ledger/internal/config"
	"github.com/example/brokerage-ledger/internal/ledger"
)

// The HTTP daemon serves the read-only query surface. It shares a durable
// store with the gRPC daemon; commands never arrive here.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var store ledger.Store
	switch cfg.Store {
	case config.StorePostgres:
		pool, perr := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if perr != nil {
			logger.Error("failed to create postgres pool", "error", perr)
			os.Exit(1)
		}
		defer pool.Close()

		if perr := pool.Ping(context.Background()); perr != nil {
			logger.Error("failed to ping database", "error", perr)
			os.Exit(1)
		}
		store = ledger.NewPostgresStore(pool)
	case config.StoreSQLite:
		sq, serr := ledger.NewSQLiteStore(cfg.SQLitePath)
		if serr != nil {
			logger.Error("failed to open sqlite store", "error", serr)
			os.Exit(1)
		}
		defer sq.Close()
		store = sq
	default:
		logger.Warn("memory store selected; queries will see an empty ledger unless the gRPC daemon shares this process")
		store = ledger.NewMemoryStore()
	}

	service := ledger.NewService(store, nil, nil, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(api.Dependencies{Logger: logger, Ledger: service}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	done := make(chan struct{})
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
		close(done)
	}()

	logger.Info("starting brokerage query API", "addr", cfg.HTTPAddr, "store", cfg.Store)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("serve failed", "error", err)
		os.Exit(1)
	}
	<-done
}
