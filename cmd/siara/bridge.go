package main

import (
	"fmt"

	bridge "github.com/samirrijal/siara/internal/adapters/http"
	"github.com/samirrijal/siara/internal/pkg/config"
)

// startBridge writes the map page and brings the loopback server up. A
// positive port is bound as-is; otherwise free ports are tried up to
// bridge.start_attempts times.
func startBridge(cfg *config.Config, rt *runtime, port int) (*bridge.Server, error) {
	if err := bridge.WriteMapPage(cfg.Bridge.StaticDir); err != nil {
		return nil, err
	}

	deps := &bridge.Dependencies{
		Reports:             rt.reports,
		Picks:               rt.picks,
		CollaboratorTimeout: cfg.Bridge.CollaboratorTimeoutDuration(),
		ExposeMetrics:       cfg.Bridge.ExposeMetrics,
	}
	app := bridge.NewApp(deps, bridge.AppConfig{
		StaticDir:    cfg.Bridge.StaticDir,
		ReadTimeout:  cfg.Bridge.ReadTimeoutDuration(),
		WriteTimeout: cfg.Bridge.WriteTimeoutDuration(),
	})

	srv := bridge.NewServer(app, cfg.Bridge.Host)
	if port > 0 {
		if err := srv.Start(port); err != nil {
			return nil, fmt.Errorf("start map bridge: %w", err)
		}
		return srv, nil
	}
	if _, err := srv.Launch(cfg.Bridge.StartAttempts); err != nil {
		return nil, err
	}
	return srv, nil
}
