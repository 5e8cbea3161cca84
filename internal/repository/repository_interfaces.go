package repository

import (
	"context"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/cache"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/domain/model"
)

// ActivityRepositoryInterface defines the activity log operations.
type ActivityRepositoryInterface interface {
	Insert(ctx context.Context, entry *model.LogEntry) error
	InsertMany(ctx context.Context, entries []*model.LogEntry) error
	Find(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error)
	Count(ctx context.Context, opts model.LogQueryOptions) (int64, error)
}

var (
	_ ActivityRepositoryInterface = (*ActivityRepository)(nil)
	_ ActivityRepositoryInterface = (*ActivityRepositoryWithCircuitBreaker)(nil)
	_ cache.Store                 = (*MongoCacheStore)(nil)
	_ cache.Store                 = (*RedisCacheStore)(nil)
	_ cache.Store                 = (*StoreWithCircuitBreaker)(nil)
)
