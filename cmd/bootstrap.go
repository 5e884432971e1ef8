package cmd

import (
	"context"
	"fmt"

	"mapwize-api/core/config"
	"mapwize-api/core/database"
	"mapwize-api/core/lock"
	"mapwize-api/core/logger"
	"mapwize-api/core/mapwize"
	"mapwize-api/core/metrics"
	"mapwize-api/core/storage"
	"mapwize-api/feature/history"
	"mapwize-api/feature/integrity/checks"
	"mapwize-api/feature/syncer"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime holds the collaborators every command builds from the configuration.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	api    *mapwize.Client
	store  storage.Client
	db     *gorm.DB
	locker lock.Locker
}

// bootstrap loads the configuration and opens the optional backends.
// Storage, database and redis failures are fatal only when they are enabled.
func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: logg}

	apiCfg := cfg.API
	apiCfg.Logger = logg.Named("mapwize")
	if rt.api, err = mapwize.NewClient(apiCfg); err != nil {
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}
	if apiCfg.Email != "" && apiCfg.Password != "" {
		if _, err := rt.api.SignIn(ctx, apiCfg.Email, apiCfg.Password); err != nil {
			return nil, fmt.Errorf("failed to sign in: %w", err)
		}
		logg.Info("Signed in to Mapwize", zap.String("email", apiCfg.Email))
	}

	if cfg.Storage.Enabled {
		if rt.store, err = storage.NewClient(cfg.Storage); err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
	}

	if cfg.Database.Enabled {
		if rt.db, err = database.Connect(cfg.Database); err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := history.NewStore(rt.db).AutoMigrate(); err != nil {
			return nil, fmt.Errorf("failed to migrate history: %w", err)
		}
		logg.Info("Connected to history database", zap.String("driver", cfg.Database.Driver))
	}

	switch cfg.Sync.LockBackend {
	case config.LockBackendRedis:
		client, err := lock.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, fmt.Errorf("lock backend redis requires REDIS_ADDR")
		}
		rt.locker = lock.NewRedisLocker(client, cfg.Sync.LockPrefix, cfg.Sync.LockTTL)
	default:
		rt.locker = lock.NewMemoryLocker()
	}

	return rt, nil
}

// syncService builds the reconciliation service on the runtime backends.
func (rt *runtime) syncService(reg prometheus.Registerer) *syncer.Service {
	return syncer.NewService(syncer.Deps{
		Gateways:      syncer.NewGateways(rt.api),
		Locker:        rt.locker,
		History:       history.NewStore(rt.db),
		Storage:       rt.store,
		StorageConfig: rt.cfg.Storage,
		Metrics:       metrics.New(reg),
		Config:        rt.cfg.Sync,
		Logger:        rt.logger,
	})
}

// venues lists the venues of the configured organization.
func (rt *runtime) venues() checks.VenueLister {
	return rt.api.Venues()
}
