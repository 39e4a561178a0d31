package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/udisondev/armoraddons/internal/config"
	"github.com/udisondev/armoraddons/internal/game/addon"
)

// Backend is an opened metadata store plus its cleanup.
type Backend struct {
	Store addon.ItemMetadataStore

	ids   itemIDSource
	close func() error
}

// itemIDSource is implemented by SQL backends that can report persisted ids.
type itemIDSource interface {
	MaxItemID(ctx context.Context) (int64, error)
}

// MaxItemID returns the highest persisted item id, or 0 when the backend
// cannot tell (memory, redis).
func (b *Backend) MaxItemID(ctx context.Context) (int64, error) {
	if b == nil || b.ids == nil {
		return 0, nil
	}
	return b.ids.MaxItemID(ctx)
}

// Close releases the backend's connections.
func (b *Backend) Close() error {
	if b == nil || b.close == nil {
		return nil
	}
	return b.close()
}

// OpenBackend opens the storage backend named in cfg.
//
// Persistent backends are wrapped in addon.WriteThroughStore so reads hit the
// item and writes reach both the item and the database.
func OpenBackend(ctx context.Context, cfg config.StorageConfig) (*Backend, error) {
	switch cfg.Backend {
	case "", config.BackendMemory:
		slog.Info("add-on storage: item metadata only")
		return &Backend{Store: addon.AttachedStore{}}, nil

	case config.BackendPostgres:
		dsn := cfg.Database.DSN()
		if err := RunMigrations(ctx, dsn); err != nil {
			return nil, fmt.Errorf("migrating postgres: %w", err)
		}
		database, err := New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		slog.Info("add-on storage: postgres", "host", cfg.Database.Host, "dbname", cfg.Database.DBName)
		repo := NewItemMetaRepository(database.Pool())
		return &Backend{
			Store: addon.NewWriteThroughStore(repo),
			ids:   repo,
			close: func() error { database.Close(); return nil },
		}, nil

	case config.BackendSQLite:
		repo, err := OpenSQLite(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		slog.Info("add-on storage: sqlite", "path", cfg.SQLite.Path)
		return &Backend{
			Store: addon.NewWriteThroughStore(repo),
			ids:   repo,
			close: repo.Close,
		}, nil

	case config.BackendRedis:
		client := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    cfg.Redis.Addrs,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("pinging redis: %w", err)
		}
		repo, err := NewRedisItemMetaRepository(client)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		slog.Info("add-on storage: redis", "addrs", cfg.Redis.Addrs)
		return &Backend{
			Store: addon.NewWriteThroughStore(repo),
			close: client.Close,
		}, nil

	default:
		return nil, errors.New("unknown storage backend " + cfg.Backend)
	}
}
