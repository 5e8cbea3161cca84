package repository

import (
	"context"
	"errors"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/cache"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/circuitbreaker"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/domain/model"
)

// StoreWithCircuitBreaker wraps a cache snapshot store with circuit breaker protection.
type StoreWithCircuitBreaker struct {
	store          cache.Store
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewStoreWithCircuitBreaker creates a new snapshot store wrapper.
func NewStoreWithCircuitBreaker(store cache.Store, cb *circuitbreaker.CircuitBreaker) *StoreWithCircuitBreaker {
	return &StoreWithCircuitBreaker{store: store, circuitBreaker: cb}
}

// Load reads a snapshot. An open circuit behaves like an empty store.
func (s *StoreWithCircuitBreaker) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		data, cbErr = s.store.Load(ctx, key)
		return cbErr
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil, nil
	}
	return data, err
}

// Save writes a snapshot. ErrCircuitOpen is returned as-is so the snapshot
// is not counted as saved.
func (s *StoreWithCircuitBreaker) Save(ctx context.Context, key string, data []byte) error {
	return s.circuitBreaker.Execute(ctx, func() error {
		return s.store.Save(ctx, key, data)
	})
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (s *StoreWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return s.circuitBreaker
}

// ActivityRepositoryWithCircuitBreaker wraps an activity repository with circuit breaker protection.
type ActivityRepositoryWithCircuitBreaker struct {
	repo           ActivityRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewActivityRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewActivityRepositoryWithCircuitBreaker(repo ActivityRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *ActivityRepositoryWithCircuitBreaker {
	return &ActivityRepositoryWithCircuitBreaker{repo: repo, circuitBreaker: cb}
}

// Insert stores a single entry. Writes are dropped while the circuit is open.
func (r *ActivityRepositoryWithCircuitBreaker) Insert(ctx context.Context, entry *model.LogEntry) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Insert(ctx, entry)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

// InsertMany stores a batch. Writes are dropped while the circuit is open.
func (r *ActivityRepositoryWithCircuitBreaker) InsertMany(ctx context.Context, entries []*model.LogEntry) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.InsertMany(ctx, entries)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

// Find queries entries with circuit breaker protection.
func (r *ActivityRepositoryWithCircuitBreaker) Find(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	var result []model.LogEntry
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Find(ctx, opts)
		return cbErr
	})
	return result, err
}

// Count counts entries with circuit breaker protection.
func (r *ActivityRepositoryWithCircuitBreaker) Count(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	var result int64
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Count(ctx, opts)
		return cbErr
	})
	return result, err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *ActivityRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}
