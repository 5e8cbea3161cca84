package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisKeyPrefix namespaces every snapshot key written to Redis.
const RedisKeyPrefix = "daniels-library:cache:"

// RedisConfig holds the connection settings for the Redis snapshot store.
type RedisConfig struct {
	Addr     string
	DB       int
	Password string
}

// RedisCacheStore keeps cache snapshots as plain Redis string values.
type RedisCacheStore struct {
	rdb *redis.Client
}

// NewRedisCacheStore creates a client for cfg. The connection is lazy; call Ping to verify it.
func NewRedisCacheStore(cfg RedisConfig) *RedisCacheStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		DB:       cfg.DB,
		Password: cfg.Password,
	})
	return &RedisCacheStore{rdb: rdb}
}

// Ping verifies the server is reachable.
func (s *RedisCacheStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.rdb.Ping(ctx).Err()
}

// Close releases the connection pool.
func (s *RedisCacheStore) Close() error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

// Load returns the snapshot saved under key, or nil when none exists.
func (s *RedisCacheStore) Load(ctx context.Context, key string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, RedisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	log.Debug().Str("key", key).Int("bytes", len(b)).Msg("Loaded cache snapshot from redis")
	return b, nil
}

// Save replaces the snapshot under key. Snapshots never expire in Redis;
// entry expiry is enforced by the cache on load.
func (s *RedisCacheStore) Save(ctx context.Context, key string, data []byte) error {
	return s.rdb.Set(ctx, RedisKeyPrefix+key, data, 0).Err()
}
