package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/input-output-hk/atala-prism-sub004/internal/config"
	"github.com/input-output-hk/atala-prism-sub004/internal/contacts"
	"github.com/input-output-hk/atala-prism-sub004/internal/core"
	_ "github.com/input-output-hk/atala-prism-sub004/internal/core/tables" // Register built-in schemas
	"github.com/input-output-hk/atala-prism-sub004/internal/logging"
	"github.com/input-output-hk/atala-prism-sub004/internal/schema"
	"github.com/input-output-hk/atala-prism-sub004/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	if cfg.Schema.Dir != "" {
		keys, err := schema.RegisterDir(cfg.Schema.Dir)
		if err != nil {
			slog.Error("failed to load schema files", "dir", cfg.Schema.Dir, "error", err)
			os.Exit(1)
		}
		slog.Info("schema files registered", "dir", cfg.Schema.Dir, "schemas", keys)
	}
	slog.Info("schemas registered", "count", core.SchemaCount(), "keys", core.Keys())

	ctx := context.Background()

	// The contact directory is optional: without it contact files still
	// validate, and credential imports are refused.
	var store core.ContactStore
	if cfg.Database.HasDatabase() {
		pool, err := contacts.Connect(ctx, cfg.Database)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if cfg.Database.Migrate {
			if err := contacts.Migrate(ctx, pool); err != nil {
				slog.Error("failed to migrate database", "error", err)
				os.Exit(1)
			}
		}
		store = contacts.NewStore(pool)
		slog.Info("connected to database")
	} else {
		slog.Warn("no database configured, credential imports are disabled")
	}

	service := core.NewService(store, core.ServiceConfig{
		MaxFileSize:   int64(cfg.Import.MaxFileSize),
		MaxConcurrent: cfg.Import.MaxConcurrent,
		MaxWaitTime:   cfg.Import.MaxWaitTime,
		Timeout:       cfg.Import.Timeout,
		Workers:       cfg.Import.Workers,
	})

	server := web.NewServer(service, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if active := service.Limiter().ActiveCount(); active > 0 {
			slog.Info("waiting for imports to complete", "active", active)
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
