package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/samirrijal/siara/internal/core/domain"
	"github.com/samirrijal/siara/internal/pkg/logging"
	"github.com/samirrijal/siara/internal/ui"
)

func runDesktop(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The UI owns the terminal, so logs go to a file.
	logFile, err := logging.OpenFile(desktopLogPath(cfg.Log.File))
	if err != nil {
		return err
	}
	defer logFile.Close()
	logging.Setup(cfg.Log.Level, cfg.Log.Format, logFile)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	srv, err := startBridge(cfg, rt, cfg.Bridge.Port)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("map bridge forced shutdown", "error", err)
		}
	}()

	p := ui.NewProgram(ctx, ui.Deps{
		Users:   rt.users,
		Reports: rt.reports,
		Geo:     rt.geo,
		Picks:   rt.picks,
		MapURL:  srv.MapURL(),
		OpenURL: ui.OpenBrowser,
	})

	// Other desktops sharing the store announce their changes here.
	if rt.events != nil {
		err := rt.events.SubscribeReportEvents(ctx, func(_ context.Context, event *domain.ReportEvent) error {
			slog.Debug("report changed", "type", event.Type, "action", event.Action, "id", event.ReportID)
			p.Send(ui.ReportsChangedMsg{})
			return nil
		})
		if err != nil {
			slog.Warn("report event subscription failed", "error", err)
		}
	}

	slog.Info("desktop started", "map_url", srv.MapURL(), "driver", cfg.Database.Driver)
	if _, err := p.Run(); err != nil {
		return err
	}
	slog.Info("desktop stopped")
	return nil
}

func desktopLogPath(configured string) string {
	if configured != "" {
		return configured
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, serviceName, serviceName+".log")
	}
	return serviceName + ".log"
}
