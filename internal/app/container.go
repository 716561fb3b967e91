package app

import (
	"fmt"

	"github.com/ayame/salon-sync-go/internal/config"
	"github.com/ayame/salon-sync-go/internal/server"
	"github.com/ayame/salon-sync-go/internal/service/cache"
	"github.com/ayame/salon-sync-go/internal/service/database"
	"github.com/ayame/salon-sync-go/internal/service/maintenance"
	"github.com/ayame/salon-sync-go/internal/service/mirror"
	"github.com/ayame/salon-sync-go/internal/service/portal"
	"github.com/ayame/salon-sync-go/internal/service/storage"
	"github.com/ayame/salon-sync-go/internal/service/store"
	syncsvc "github.com/ayame/salon-sync-go/internal/service/sync"
	"go.uber.org/zap"
)

// Container bundles assembled services for the runtime.
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	Server *server.Server

	closers []func()
}

// Close releases infrastructure connections in reverse assembly order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// Build assembles all infrastructure services. All heavy-weight
// initialization (DB/Redis connections) happens here so the sync pipelines
// stay focused on orchestration.
func Build(cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	cacheSvc, err := cache.NewService(cache.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache service: %w", err)
	}
	closers = append(closers, func() {
		_ = cacheSvc.Close()
	})

	postgresSvc, err := database.NewPostgresService(database.PostgresConfig{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
		SSLMode:  cfg.Postgres.SSLMode,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres service: %w", err)
	}
	closers = append(closers, func() {
		_ = postgresSvc.Close()
	})

	castRepo := store.NewCastRepository(postgresSvc, logger)
	shiftRepo := store.NewShiftRepository(postgresSvc, logger)
	assetRepo := store.NewAssetRepository(postgresSvc, logger)

	storageClient := storage.NewClient(storage.Config{
		BaseURL:    cfg.Storage.BaseURL,
		ServiceKey: cfg.Storage.ServiceKey,
		Bucket:     cfg.Storage.Bucket,
	}, logger)

	fetcher := portal.NewFetcher(logger)
	selectors := portal.DefaultSelectors()
	shiftParser := portal.NewShiftParser(selectors, logger)
	profileParser := portal.NewProfileParser(selectors, portal.DefaultVocabulary(), logger)

	mirrorSvc := mirror.NewService(fetcher, storageClient, assetRepo, logger)

	syncCfg := syncsvc.Config{
		BaseURL:      cfg.Portal.BaseURL,
		SchedulePath: cfg.Portal.SchedulePath,
		ProfilePath:  cfg.Portal.ProfilePath,
		WindowDays:   cfg.Sync.WindowDays,
		PaceDelay:    cfg.Sync.PaceDelay,
	}

	shiftSyncer := syncsvc.NewShiftSyncer(fetcher, shiftParser, castRepo, shiftRepo, cacheSvc, syncCfg, logger)
	profileSyncer := syncsvc.NewProfileSyncer(fetcher, profileParser, castRepo, mirrorSvc, cacheSvc, syncCfg, logger)
	pruner := maintenance.NewPruner(assetRepo, storageClient, logger)

	handler := server.NewHandler(shiftSyncer, profileSyncer, pruner, cacheSvc, postgresSvc, cacheSvc, logger)
	srv := server.New(cfg.Server.Port, handler, logger)

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Server:  srv,
		closers: closers,
	}, nil
}
