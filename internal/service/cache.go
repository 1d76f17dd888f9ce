package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/recipes/backend/internal/model"
)

const cacheKeyPrefix = "recipes:"

// RedisListingCache keeps published listings in redis as JSON
type RedisListingCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisListingCache creates a listing cache with the given entry TTL
func NewRedisListingCache(client *redis.Client, ttl time.Duration) *RedisListingCache {
	return &RedisListingCache{redis: client, ttl: ttl}
}

func (c *RedisListingCache) Get(ctx context.Context, key string) ([]model.Recipe, bool, error) {
	data, err := c.redis.Get(ctx, cacheKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var recipes []model.Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	return recipes, true, nil
}

func (c *RedisListingCache) Set(ctx context.Context, key string, recipes []model.Recipe) error {
	if recipes == nil {
		recipes = []model.Recipe{}
	}
	data, err := json.Marshal(recipes)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, cacheKeyPrefix+key, data, c.ttl).Err()
}

// Invalidate drops every listing this cache has written
func (c *RedisListingCache) Invalidate(ctx context.Context) error {
	iter := c.redis.Scan(ctx, 0, cacheKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.redis.Del(ctx, keys...).Err()
}
