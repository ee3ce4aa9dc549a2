package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/review-sentiment/internal/domain"
	"github.com/user/review-sentiment/pkg/utils"
)

// RedisCache keeps finished tables in Redis with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr string, ttl time.Duration) *RedisCache {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &RedisCache{client: rdb, ttl: ttl}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func tableKey(query string) string {
	return fmt.Sprintf("sentiment:table:%s", utils.HashKey(query))
}

func (c *RedisCache) Get(ctx context.Context, query string) (*domain.Table, bool, error) {
	data, err := c.client.Get(ctx, tableKey(query)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var table domain.Table
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, false, fmt.Errorf("decode cached table: %w", err)
	}
	return &table, true, nil
}

func (c *RedisCache) Set(ctx context.Context, query string, table *domain.Table) error {
	data, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("encode table: %w", err)
	}
	return c.client.Set(ctx, tableKey(query), data, c.ttl).Err()
}
