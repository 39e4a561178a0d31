package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/udisondev/armoraddons/internal/addonserver"
	"github.com/udisondev/armoraddons/internal/config"
	"github.com/udisondev/armoraddons/internal/db"
	"github.com/udisondev/armoraddons/internal/telemetry"
)

const ConfigPath = "config/addonserver.yaml"

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
	// Config first: it decides the log level.
	cfgPath := ConfigPath
	if p := os.Getenv("ADDON_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadAddonServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel, _ := config.ParseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	slog.Info("addon server starting", "log_level", cfg.LogLevel, "storage", cfg.Storage.Backend)

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Endpoint)
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			slog.Error("flushing traces", "err", err)
		}
	}()

	backend, err := db.OpenBackend(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			slog.Error("closing storage", "err", err)
		}
	}()

	srv, err := addonserver.New(cfg.Addon, addonserver.Deps{Store: backend.Store})
	if err != nil {
		return fmt.Errorf("creating addon server: %w", err)
	}

	maxID, err := backend.MaxItemID(ctx)
	if err != nil {
		return fmt.Errorf("loading persisted item ids: %w", err)
	}
	srv.SeedItemIDs(maxID)

	return srv.Run(ctx)
}
