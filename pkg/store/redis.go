package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces explanation keys in a shared Redis instance.
const keyPrefix = "skater:explanation:"

// RedisConfig configures a Redis-backed explanation store.
type RedisConfig struct {
	Addr     string // host:port
	Password string // optional
	DB       int    // optional, defaults to 0
}

// RedisStore is a Redis-backed explanation store for multi-instance server
// deployments. Expiration is delegated to Redis key TTLs, so Cleanup is a
// no-op.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Addr, err)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Explanation, error) {
	data, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var rec Explanation
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse explanation: %w", err)
	}
	if rec.IsExpired() {
		_ = s.Delete(ctx, id)
		return nil, nil
	}
	return &rec, nil
}

func (s *RedisStore) Set(ctx context.Context, rec *Explanation) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal explanation: %w", err)
	}

	var ttl time.Duration
	if !rec.ExpiresAt.IsZero() {
		ttl = time.Until(rec.ExpiresAt)
		if ttl <= 0 {
			return nil // already expired, nothing to store
		}
	}
	if err := s.client.Set(ctx, keyPrefix+rec.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Cleanup is a no-op: Redis expires keys natively.
func (s *RedisStore) Cleanup(ctx context.Context) error { return nil }

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
