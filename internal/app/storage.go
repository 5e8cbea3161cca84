package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/DANIELMWENDWA9451/Daniels-Library/config"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/cache"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/circuitbreaker"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/repository"
)

// StorageComponents holds the durable backend behind the caches.
type StorageComponents struct {
	// Backend is the store actually in use, after fallbacks.
	Backend string
	// Store is nil for the memory backend.
	Store          cache.Store
	CircuitBreaker *circuitbreaker.CircuitBreaker
	Redis          *repository.RedisCacheStore
}

// InitializeStorage selects the cache snapshot store named by cfg.Cache.Store.
// The mongodb backend needs a connected database; without one the caches stay in memory.
func InitializeStorage(ctx context.Context, cfg config.Config, db *DatabaseComponents) *StorageComponents {
	var store cache.Store
	sc := &StorageComponents{Backend: cfg.Cache.Store}

	switch cfg.Cache.Store {
	case config.StoreFile:
		fs, err := cache.NewFileStore(cfg.Cache.Dir)
		if err != nil {
			log.Warn().Err(err).Str("dir", cfg.Cache.Dir).Msg("Failed to open cache directory - caching in memory only")
			sc.Backend = config.StoreMemory
			return sc
		}
		store = fs
	case config.StoreMongoDB:
		if db == nil {
			log.Warn().Msg("CACHE_STORE=mongodb requires MONGODB_ENABLED - caching in memory only")
			sc.Backend = config.StoreMemory
			return sc
		}
		store = repository.NewMongoCacheStore(db.DB)
	case config.StoreRedis:
		rs := repository.NewRedisCacheStore(repository.RedisConfig{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			Password: cfg.Redis.Password,
		})
		if err := rs.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis not reachable yet - snapshots are skipped while its circuit is open")
		} else {
			log.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")
		}
		sc.Redis = rs
		store = rs
	default:
		sc.Backend = config.StoreMemory
		return sc
	}

	sc.CircuitBreaker = circuitbreaker.New(newBreakerConfig(cfg.Database.CircuitBreaker, "cache-store-"+sc.Backend, nil))
	sc.Store = repository.NewStoreWithCircuitBreaker(store, sc.CircuitBreaker)
	log.Info().Str("store", sc.Backend).Msg("Cache persistence enabled")
	return sc
}

// Close releases the Redis client, if any.
func (s *StorageComponents) Close() error {
	if s == nil || s.Redis == nil {
		return nil
	}
	return s.Redis.Close()
}
