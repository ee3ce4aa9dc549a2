package storage

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/user/review-sentiment/internal/domain"
	"github.com/user/review-sentiment/pkg/utils"
)

// MemoryCache is an in-process LRU of finished tables whose entries expire
// after ttl. It is used when no Redis address is configured.
type MemoryCache struct {
	lru *expirable.LRU[string, *domain.Table]
}

func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{lru: expirable.NewLRU[string, *domain.Table](size, nil, ttl)}
}

func (c *MemoryCache) Get(_ context.Context, query string) (*domain.Table, bool, error) {
	table, ok := c.lru.Get(utils.HashKey(query))
	return table, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, query string, table *domain.Table) error {
	c.lru.Add(utils.HashKey(query), table)
	return nil
}

func (c *MemoryCache) Len() int {
	return c.lru.Len()
}
