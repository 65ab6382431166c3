package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/anticafe/config"
	"github.com/Domenick1991/anticafe/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     *redis.Client
	catalogTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, catalogTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		catalogTTL: catalogTTL,
	}
}

func (c *RedisCache) GetResources(ctx context.Context) ([]domain.Resource, error) {
	data, err := c.client.Get(ctx, resourcesKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var resources []domain.Resource
	if err := json.Unmarshal(data, &resources); err != nil {
		return nil, err
	}
	return resources, nil
}

func (c *RedisCache) SetResources(ctx context.Context, resources []domain.Resource) error {
	payload, err := json.Marshal(resources)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, resourcesKey(), payload, c.catalogTTL).Err()
}

func (c *RedisCache) InvalidateResources(ctx context.Context) error {
	return c.client.Del(ctx, resourcesKey()).Err()
}

// AcquireResourceLock serializes booking creation per resource. The overlap
// check itself runs in a database transaction; the lock keeps concurrent
// callers from piling up on the same resource row.
func (c *RedisCache) AcquireResourceLock(ctx context.Context, resourceID int64, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, resourceLockKey(resourceID), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseResourceLock(ctx context.Context, resourceID int64) error {
	return c.client.Del(ctx, resourceLockKey(resourceID)).Err()
}

// AcquireUserLock serializes session opening per user.
func (c *RedisCache) AcquireUserLock(ctx context.Context, userID int64, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, userLockKey(userID), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseUserLock(ctx context.Context, userID int64) error {
	return c.client.Del(ctx, userLockKey(userID)).Err()
}

func resourcesKey() string {
	return "cache:resources"
}

func resourceLockKey(resourceID int64) string {
	return fmt.Sprintf("lock:resource:%d", resourceID)
}

func userLockKey(userID int64) string {
	return fmt.Sprintf("lock:user:%d", userID)
}
