package cache

import (
	"context"
	"errors"
	"flight-route-service/internal/domain"
	"flight-route-service/internal/platform/obs"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisResultCache stores priced search results as JSON strings with a TTL.
type RedisResultCache struct {
	Client *redis.Client
}

func NewRedisResultCache(client *redis.Client) *RedisResultCache {
	return &RedisResultCache{Client: client}
}

// Open a client for addr and verify it answers PING.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis client: ping %q: %w", addr, err)
	}
	return client, nil
}

func (c *RedisResultCache) Get(ctx context.Context, key string) (_ []domain.PricedResult, _ bool, err error) {
	defer obs.Time(ctx, "result.cache.Get")(&err)

	if c.Client == nil {
		return nil, false, errors.New("result cache: redis client is nil")
	}

	raw, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get result cache: key %q: %w", key, err)
	}

	out, err := decodeResults(raw)
	if err != nil {
		return nil, false, fmt.Errorf("get result cache: decode key %q: %w", key, err)
	}

	return out, true, nil
}

func (c *RedisResultCache) Set(ctx context.Context, key string, results []domain.PricedResult, ttl time.Duration) (err error) {
	defer obs.Time(ctx, "result.cache.Set")(&err)

	if c.Client == nil {
		return errors.New("result cache: redis client is nil")
	}

	raw, err := encodeResults(results)
	if err != nil {
		return fmt.Errorf("set result cache: encode key %q: %w", key, err)
	}

	if err := c.Client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("set result cache: key %q: %w", key, err)
	}
	return nil
}
