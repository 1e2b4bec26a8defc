package main

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/samirrijal/siara/internal/adapters/lru"
	natsadapter "github.com/samirrijal/siara/internal/adapters/nats"
	"github.com/samirrijal/siara/internal/adapters/nominatim"
	"github.com/samirrijal/siara/internal/adapters/postgres"
	"github.com/samirrijal/siara/internal/adapters/sqlite"
	"github.com/samirrijal/siara/internal/adapters/valkey"
	"github.com/samirrijal/siara/internal/core/pickstore"
	"github.com/samirrijal/siara/internal/core/ports"
	"github.com/samirrijal/siara/internal/core/usecases"
	"github.com/samirrijal/siara/internal/pkg/config"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(serviceName, cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

// store is the report store selected by database.driver.
type store struct {
	users ports.UserRepository
	lost  ports.LostAnimalRepository
	found ports.FoundReportRepository
	close func()
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (*store, error) {
	switch cfg.Driver {
	case "postgres":
		db, err := postgres.New(ctx, cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return &store{
			users: postgres.NewUserRepo(db),
			lost:  postgres.NewLostAnimalRepo(db),
			found: postgres.NewFoundReportRepo(db),
			close: db.Close,
		}, nil
	default:
		db, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return &store{
			users: sqlite.NewUserRepo(db),
			lost:  sqlite.NewLostAnimalRepo(db),
			found: sqlite.NewFoundReportRepo(db),
			close: func() { _ = db.Close() },
		}, nil
	}
}

// runtime holds everything the desktop and serve commands share.
type runtime struct {
	users   *usecases.UserService
	reports *usecases.ReportService
	geo     *usecases.GeocodeService
	picks   *pickstore.Store
	events  *natsadapter.Subscriber

	closers []func()
}

func newRuntime(ctx context.Context, cfg *config.Config) (*runtime, error) {
	rt := &runtime{picks: pickstore.New()}

	st, err := openStore(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, st.close)

	// Geocode cache: shared Valkey when configured, otherwise in-process.
	var cache ports.CacheService
	if cfg.Valkey.Addr != "" {
		vc, err := valkey.New(ctx, cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable, using in-process cache", "error", err)
		} else {
			cache = vc
			rt.closers = append(rt.closers, vc.Close)
		}
	}
	if cache == nil {
		lc, err := lru.New(cfg.Geocoder.CacheSize)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("geocode cache: %w", err)
		}
		cache = lc
	}

	geocoder := nominatim.New(cfg.Geocoder.BaseURL, cfg.Geocoder.UserAgent, cfg.Geocoder.TimeoutDuration())
	rt.geo = usecases.NewGeocodeService(geocoder, cache, cfg.Geocoder.MinInterval(), cfg.Geocoder.CacheTTL)

	// NATS
	var publisher ports.EventPublisher
	if cfg.NATS.URL != "" {
		conn, err := natsadapter.Connect(cfg.NATS.URL, serviceName)
		if err != nil {
			slog.Warn("nats unavailable, report events disabled", "error", err)
		} else {
			publisher = natsadapter.NewPublisher(conn)
			rt.events = natsadapter.NewSubscriber(conn)
			// Subscriber.Close drains the shared connection.
			rt.closers = append(rt.closers, rt.events.Close)
		}
	}

	rt.users = usecases.NewUserService(st.users, bcrypt.DefaultCost)
	rt.reports = usecases.NewReportService(st.lost, st.found, rt.geo, publisher)
	return rt, nil
}

// Close releases resources in reverse order of acquisition.
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
}
