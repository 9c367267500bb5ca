package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// ModelNameCache remembers which model id was validated for a credential. Entries are
// never invalidated.
type ModelNameCache interface {
	Get(ctx context.Context, credential string) (string, bool, error)
	Set(ctx context.Context, credential, model string) error
}

// MemoryModelCache lives as long as the process.
type MemoryModelCache struct {
	mu     sync.Mutex
	models map[string]string
}

func NewMemoryModelCache() *MemoryModelCache {
	return &MemoryModelCache{models: make(map[string]string)}
}

func (c *MemoryModelCache) Get(_ context.Context, credential string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.models[credential]
	return m, ok, nil
}

func (c *MemoryModelCache) Set(_ context.Context, credential, model string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.models[credential] = model
	return nil
}

const redisKeyPrefix = "multiscrapper:model:"

// RedisModelCache shares validated names between processes. Keys are a SHA-256 of
// the credential, never the credential itself.
type RedisModelCache struct {
	client *redis.Client
}

func NewRedisModelCache(client *redis.Client) *RedisModelCache {
	return &RedisModelCache{client: client}
}

// NewRedisModelCacheFromURL parses a redis:// URL and pings the server.
func NewRedisModelCacheFromURL(ctx context.Context, url string) (*RedisModelCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisModelCache(client), nil
}

func (c *RedisModelCache) Get(ctx context.Context, credential string) (string, bool, error) {
	v, err := c.client.Get(ctx, redisKey(credential)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get model: %w", err)
	}
	return v, true, nil
}

func (c *RedisModelCache) Set(ctx context.Context, credential, model string) error {
	if err := c.client.Set(ctx, redisKey(credential), model, 0).Err(); err != nil {
		return fmt.Errorf("redis set model: %w", err)
	}
	return nil
}

func (c *RedisModelCache) Close() error {
	return c.client.Close()
}

func redisKey(credential string) string {
	sum := sha256.Sum256([]byte(credential))
	return redisKeyPrefix + hex.EncodeToString(sum[:])
}

var _ ModelNameCache = (*MemoryModelCache)(nil)
var _ ModelNameCache = (*RedisModelCache)(nil)
