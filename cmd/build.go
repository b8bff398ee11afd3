package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Goutamchandnani/UniHustle/internal/adapters/repository"
	"github.com/Goutamchandnani/UniHustle/internal/adapters/source"
	service "github.com/Goutamchandnani/UniHustle/internal/app"
	"github.com/Goutamchandnani/UniHustle/internal/config"
	"github.com/Goutamchandnani/UniHustle/pkg/logger"
)

// buildStore opens the configured match store.
func buildStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.Store {
	case config.StoreRedis:
		rdb, err := repository.DialRedis(ctx, repository.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return repository.NewRedisStore(rdb, repository.WithKeyPrefix(cfg.RedisKeyPrefix)), nil
	case config.StorePostgres:
		db, err := repository.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		store := repository.NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	default:
		return repository.NewMemoryStore(), nil
	}
}

// buildSources registers every source with credentials configured.
func buildSources(cfg *config.Config) (*source.Registry, error) {
	reg := source.NewRegistry()
	if cfg.ReedAPIKey != "" {
		reed := source.NewReedSource(cfg.ReedAPIKey,
			source.WithBaseURL(cfg.ReedBaseURL),
			source.WithHTTPClient(&http.Client{Timeout: cfg.SourceTimeout()}),
		)
		if err := reg.Register(reed); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// buildService creates the service. withStore is false for one-shot commands
// that never touch stored matches.
func buildService(ctx context.Context, cfg *config.Config, withStore bool) (*service.Service, error) {
	sources, err := buildSources(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to register sources: %w", err)
	}

	opts := []service.Option{
		service.WithLogger(logger.Get().Named("service")),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.QueueSize),
		service.WithDedupeSize(cfg.DedupeSize),
		service.WithMaxFeedLimit(cfg.MaxFeedLimit),
		service.WithWeights(cfg.Weights()),
		service.WithScheduleTimes(cfg.CommuteTime(), cfg.MinBuffer()),
		service.WithSources(sources),
		service.WithSourceKeywords(cfg.Keywords()),
	}
	if withStore {
		store, err := buildStore(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store, err)
		}
		opts = append(opts, service.WithStore(store))
	}
	return service.New(opts...)
}
