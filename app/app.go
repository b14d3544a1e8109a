package app

import (
	"context"
	"errors"
	"fmt"

	"parts-manager/core/cache"
	"parts-manager/core/config"
	"parts-manager/core/database"
	"parts-manager/core/logger"
	"parts-manager/core/storage"
	"parts-manager/core/supplier"
	"parts-manager/feature/parts"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Clients are the external collaborators of the service. A nil supplier API
// leaves that source unconfigured. Storage replaces the MinIO client built
// from configuration when set.
type Clients struct {
	DigiKey  supplier.DigiKeyAPI
	Mouser   supplier.MouserAPI
	Octopart supplier.OctopartAPI
	Storage  storage.Client
}

// App owns the parts service and the connections behind it.
type App struct {
	Service *parts.Service
	Logger  *zap.Logger

	db    *gorm.DB
	redis *redis.Client
}

// New wires the parts service from cfg. When log is nil a logger is built
// from cfg.Log. Any connection opened before a failure is closed again.
func New(ctx context.Context, cfg *config.Config, clients Clients, log *zap.Logger) (_ *App, err error) {
	if cfg == nil {
		return nil, errors.New("app: nil configuration")
	}
	if log == nil {
		if log, err = logger.New(&cfg.Log); err != nil {
			return nil, err
		}
	}

	opts, err := cfg.Reconcile.Options()
	if err != nil {
		return nil, fmt.Errorf("invalid reconcile configuration: %w", err)
	}

	a := &App{Logger: log}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	// 1. Part type store
	if a.db, err = database.Connect(cfg.Database); err != nil {
		return nil, err
	}
	store := parts.NewTaxonomyStore(a.db)
	if err = store.EnsureSchema(ctx, cfg.Reconcile.AutoMigrate); err != nil {
		return nil, err
	}
	log.Info("Connected to part type database",
		zap.String("driver", cfg.Database.Driver),
		zap.Bool("auto_migrate", cfg.Reconcile.AutoMigrate))

	// 2. Result cache (optional)
	var results *parts.ResultCache
	if cfg.Redis.Enabled {
		if a.redis, err = cache.New(ctx, cfg.Redis); err != nil {
			return nil, err
		}
		results = parts.NewResultCache(a.redis, cfg.Reconcile.ResultTTL())
		log.Info("Result cache enabled",
			zap.String("addr", cfg.Redis.Addr),
			zap.Duration("ttl", cfg.Reconcile.ResultTTL()))
	}

	// 3. Metadata archive (optional)
	var archive *parts.Archive
	if cfg.Reconcile.Archive {
		client := clients.Storage
		if client == nil {
			if client, err = storage.NewClient(cfg.Storage); err != nil {
				return nil, err
			}
		}
		if err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			return nil, err
		}
		archive = parts.NewArchive(client, cfg.Storage.Bucket)
		log.Info("Metadata archive enabled", zap.String("bucket", cfg.Storage.Bucket))
	}

	// 4. Service
	sources := supplier.NewSet(cfg.Suppliers, clients.DigiKey, clients.Mouser, clients.Octopart)
	a.Service = parts.NewService(parts.Dependencies{
		Sources:   sources,
		PartTypes: store,
		Results:   results,
		Archive:   archive,
		Logger:    log,
	}, opts)

	log.Info("Parts service ready",
		zap.String("cost_policy", string(opts.CostPolicy)),
		zap.Duration("fetch_timeout", opts.FetchTimeout))
	return a, nil
}

// Close releases the database and Redis connections.
func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err != nil {
			errs = append(errs, err)
		} else {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
