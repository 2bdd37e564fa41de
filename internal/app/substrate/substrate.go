// Package substrate открывает key/value-хранилище, выбранное в конфиге.
package substrate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/techvogue/internal/config"
	"github.com/magabrotheeeer/techvogue/internal/storage"
	"github.com/magabrotheeeer/techvogue/internal/storage/bolt"
	"github.com/magabrotheeeer/techvogue/internal/storage/memory"
	"github.com/magabrotheeeer/techvogue/internal/storage/postgresql"
	"github.com/magabrotheeeer/techvogue/internal/storage/redis"
)

// Open подключает хранилище по cfg.Driver.
func Open(ctx context.Context, cfg config.Storage, redisCfg config.RedisConnection, log *slog.Logger) (storage.Substrate, error) {
	const op = "substrate.Open"

	var (
		kv  storage.Substrate
		err error
	)
	switch cfg.Driver {
	case "bolt":
		kv, err = bolt.Open(cfg.BoltPath, cfg.BoltBucket, cfg.BoltLockTimeout)
	case "redis":
		kv, err = redis.InitServer(ctx, redisCfg)
	case "postgres":
		kv, err = postgresql.New(ctx, cfg.StorageConnectionString)
	case "memory":
		kv = memory.New()
	default:
		err = fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("storage opened", slog.String("driver", cfg.Driver))
	return kv, nil
}
