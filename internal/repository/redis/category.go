package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jenfranx30/savemate-backend/internal/domain"
)

const categoryListKey = "categories:active"

// CategoryCache implements repository.CategoryCache using Redis.
type CategoryCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewCategoryCache creates a Redis-backed category list cache.
func NewCategoryCache(client redis.Cmdable, ttl time.Duration) *CategoryCache {
	return &CategoryCache{client: client, ttl: ttl}
}

// Get returns the cached list. The boolean is false on a cache miss.
func (c *CategoryCache) Get(ctx context.Context) ([]domain.Category, bool, error) {
	data, err := c.client.Get(ctx, categoryListKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get categories: %w", err)
	}

	var categories []domain.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, false, fmt.Errorf("unmarshal categories: %w", err)
	}
	return categories, true, nil
}

// Set stores the list with the configured TTL.
func (c *CategoryCache) Set(ctx context.Context, categories []domain.Category) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("marshal categories: %w", err)
	}
	if err := c.client.Set(ctx, categoryListKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set categories: %w", err)
	}
	return nil
}

// Invalidate drops the cached list.
func (c *CategoryCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, categoryListKey).Err(); err != nil {
		return fmt.Errorf("redis del categories: %w", err)
	}
	return nil
}
