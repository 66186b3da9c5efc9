package cache

import (
	"context"
	"time"

	"optimeet/core/config"
	"optimeet/core/constants"
	"optimeet/core/logger"

	"github.com/redis/go-redis/v9"
)

// Cache is the Redis-backed side store for token blacklisting and share-link
// resolution.
type Cache interface {
	AddToTokenBlacklist(ctx context.Context, token string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
	SetShareTarget(ctx context.Context, shareID string, ownerID string) error
	GetShareTarget(ctx context.Context, shareID string) (string, bool, error)
	Close() error
}

type redisCache struct {
	client *redis.Client
}

const shareTargetTTL = 15 * time.Minute

func New(cfg config.RedisConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	logger.Info("Cache initialized", "addr", cfg.Addr, "db", cfg.DB)
	return &redisCache{client: client}, nil
}

func (c *redisCache) AddToTokenBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, constants.RedisKeyTokenBlacklist+token, "1", ttl).Err()
}

func (c *redisCache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := c.client.Exists(ctx, constants.RedisKeyTokenBlacklist+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *redisCache) SetShareTarget(ctx context.Context, shareID string, ownerID string) error {
	return c.client.Set(ctx, constants.RedisKeyShareTarget+shareID, ownerID, shareTargetTTL).Err()
}

func (c *redisCache) GetShareTarget(ctx context.Context, shareID string) (string, bool, error) {
	val, err := c.client.Get(ctx, constants.RedisKeyShareTarget+shareID).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *redisCache) Close() error {
	return c.client.Close()
}
