package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/udisondev/armoraddons/internal/model"
)

const redisItemKeyPrefix = "addon:item:"

// RedisItemMetaRepository stores each item's metadata as one redis hash.
type RedisItemMetaRepository struct {
	client redis.UniversalClient
}

// NewRedisItemMetaRepository creates the redis-backed store.
func NewRedisItemMetaRepository(client redis.UniversalClient) (*RedisItemMetaRepository, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	return &RedisItemMetaRepository{client: client}, nil
}

func redisItemKey(itemID int64) string {
	return redisItemKeyPrefix + strconv.FormatInt(itemID, 10)
}

// Load returns all metadata fields of item.
func (r *RedisItemMetaRepository) Load(ctx context.Context, item *model.Item) (map[string]string, error) {
	values, err := r.client.HGetAll(ctx, redisItemKey(item.ID())).Result()
	if err != nil {
		return nil, fmt.Errorf("loading metadata for item %d: %w", item.ID(), err)
	}
	return values, nil
}

// Save writes all values in one MULTI/EXEC. An empty value deletes the field.
func (r *RedisItemMetaRepository) Save(ctx context.Context, item *model.Item, values map[string]string) error {
	key := redisItemKey(item.ID())

	set := make(map[string]any, len(values))
	var del []string
	for k, v := range values {
		if v == "" {
			del = append(del, k)
			continue
		}
		set[k] = v
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(set) > 0 {
			pipe.HSet(ctx, key, set)
		}
		if len(del) > 0 {
			pipe.HDel(ctx, key, del...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving metadata for item %d: %w", item.ID(), err)
	}
	return nil
}
