// Command plantap captures drawing catalogs from a construction-management
// web app and lets you browse them.
package main

import (
	"io"
	"os"

	"github.com/custodia-labs/plantap/internal/adapters/driven/bus"
	"github.com/custodia-labs/plantap/internal/adapters/driven/config/file"
	"github.com/custodia-labs/plantap/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/plantap/internal/adapters/driven/storage/redis"
	"github.com/custodia-labs/plantap/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/plantap/internal/adapters/driving/cli"
	"github.com/custodia-labs/plantap/internal/core/domain"
	"github.com/custodia-labs/plantap/internal/core/ports/driven"
	"github.com/custodia-labs/plantap/internal/core/ports/driving"
	"github.com/custodia-labs/plantap/internal/core/services"
	"github.com/custodia-labs/plantap/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	defer logger.Sync()

	configStore := openConfig()
	settingsService := services.NewSettingsService(configStore)
	settings := settingsService.Get()

	svc := &cli.Services{Settings: settingsService}

	store, closeStore, err := openStore(settings)
	if err != nil {
		// Commands that need storage report it as not configured.
		logger.Warn("storage unavailable: %v", err)
	} else {
		defer closeStore()

		captureBus, err := openBus(settings)
		if err != nil {
			logger.Warn("capture bus unavailable: %v", err)
		} else {
			defer captureBus.Close()
			svc.Bus = captureBus
		}

		svc.Catalog = services.NewCatalogService(store, settings.ProxyUpstream)
		svc.Favorites = services.NewFavoritesService(store)
		svc.Recents = services.NewRecentsService(store)
		svc.Preferences = services.NewPreferencesService(store)
		svc.NewCapture = func(s domain.Settings, b driven.CaptureBus, r driven.Renderer) driving.CaptureService {
			return services.NewCaptureService(store, b, r, services.CaptureOptions{
				Origin:   s.Origin(),
				Debounce: s.Debounce,
				Reflush:  s.Reflush,
			})
		}
	}

	cli.SetServices(svc)
	if err := cli.Execute(); err != nil {
		return 1
	}
	return 0
}

// openConfig loads ~/.plantap/config.toml, or falls back to an empty
// in-memory store when the directory cannot be used.
func openConfig() driven.ConfigStore {
	dir, err := file.DefaultDir()
	if err == nil {
		var store *file.ConfigStore
		if store, err = file.NewConfigStore(dir); err == nil {
			return store
		}
	}
	logger.Warn("config file unavailable, using defaults: %v", err)
	return memory.NewConfigStore()
}

// openStore opens the configured key-value store.
func openStore(s domain.Settings) (driven.KVStore, func(), error) {
	switch s.Storage {
	case domain.StorageMemory:
		return memory.NewKVStore(), func() {}, nil
	case domain.StorageRedis:
		store, err := redis.NewStore(redis.Options{URL: s.RedisURL})
		if err != nil {
			return nil, nil, err
		}
		return store, closer(store), nil
	default:
		store, err := sqlite.NewStore(s.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return store, closer(store), nil
	}
}

// openBus opens the configured capture bus.
func openBus(s domain.Settings) (driven.CaptureBus, error) {
	if s.Bus != domain.BusRedis {
		return bus.NewLocal(0), nil
	}
	client, err := redis.Connect(redis.Options{URL: s.RedisURL})
	if err != nil {
		return nil, err
	}
	return bus.NewRedis(client, s.RedisChannel, true), nil
}

func closer(c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			logger.Warn("closing store: %v", err)
		}
	}
}
