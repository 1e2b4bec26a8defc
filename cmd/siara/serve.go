package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/samirrijal/siara/internal/core/domain"
	"github.com/samirrijal/siara/internal/pkg/logging"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())

	port := cfg.Bridge.Port
	if f := cmd.Flags().Lookup("port"); f != nil && f.Changed {
		port, _ = cmd.Flags().GetInt("port")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	if rt.events != nil {
		err := rt.events.SubscribeReportEvents(ctx, func(_ context.Context, event *domain.ReportEvent) error {
			slog.Info("report changed", "type", event.Type, "action", event.Action, "id", event.ReportID)
			return nil
		})
		if err != nil {
			slog.Warn("report event subscription failed", "error", err)
		}
	}

	srv, err := startBridge(cfg, rt, port)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), srv.MapURL())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received, draining connections...", "signal", sig.String())
	case <-ctx.Done():
	}

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}
	return nil
}
