package main

import (
	"context"
	"fmt"

	"github.com/angelmondragon/brewcart/pkg/config"
	"github.com/angelmondragon/brewcart/pkg/db"
	"github.com/angelmondragon/brewcart/pkg/kv"
	"github.com/angelmondragon/brewcart/pkg/logger"
	"github.com/angelmondragon/brewcart/pkg/redis"
)

type storage interface {
	kv.Store
	kv.Pinger
}

// openStorage returns the configured key-value backend and its closer.
func openStorage(ctx context.Context, cfg *config.Config, logg *logger.Logger) (storage, func() error, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		return kv.NewMemory(), func() error { return nil }, nil
	case config.StorageDriverRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap redis: %w", err)
		}
		return client, client.Close, nil
	case config.StorageDriverSQLite, config.StorageDriverPostgres:
		client, err := db.New(ctx, cfg.Storage.Driver, cfg.DB, logg)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap database: %w", err)
		}
		return client, client.Close, nil
	}
	return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
}
