package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/teyvat-catalog/internal/config"
	v1 "github.com/KirkDiggler/teyvat-catalog/internal/handlers/api/v1"
	"github.com/KirkDiggler/teyvat-catalog/internal/pkg/idgen"
	"github.com/KirkDiggler/teyvat-catalog/internal/storage"
)

var (
	httpAddr string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	Long:  `Start the catalog HTTP server on the configured storage backend.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().StringVar(&httpAddr, "addr", "", "Listen address override, e.g. :3000")
	addStorageFlag(serverCmd)
}

func runServer(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(func(cfg *config.Config) {
		if httpAddr != "" {
			cfg.HTTP.Addr = httpAddr
		}
	})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	stores, err := storage.Open(ctx, &cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := stores.Close(context.Background()); err != nil {
			slog.Error("Failed to close storage", "error", err)
		}
	}()

	svc, err := newServices(stores)
	if err != nil {
		return err
	}

	app, err := v1.NewApp(&v1.AppConfig{
		Characters:   svc.characters,
		Weapons:      svc.weapons,
		Monsters:     svc.monsters,
		RequestIDs:   idgen.NewUUID(""),
		AllowOrigins: cfg.HTTP.AllowOrigins,
		BodyLimit:    cfg.HTTP.BodyLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting",
			"addr", cfg.HTTP.Addr,
			"storage", cfg.Storage.Driver,
		)
		if err := app.Listen(cfg.HTTP.Addr); err != nil {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Received shutdown signal, gracefully stopping")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout.Std())
		defer shutdownCancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
			return err
		}
		slog.Info("Server stopped gracefully")
		return nil
	case err := <-errChan:
		return err
	}
}
