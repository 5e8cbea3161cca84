package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/domain/model"
)

// Activity query limits.
const (
	DefaultActivityLimit = 50
	MaxActivityLimit     = 500
)

// ActivityStore persists activity entries.
type ActivityStore interface {
	Insert(ctx context.Context, entry *model.LogEntry) error
	InsertMany(ctx context.Context, entries []*model.LogEntry) error
	Find(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error)
	Count(ctx context.Context, opts model.LogQueryOptions) (int64, error)
}

// ActivityPage is one page of activity entries, newest first.
type ActivityPage struct {
	Entries []model.LogEntry `json:"entries"`
	Total   int64            `json:"total"`
	Limit   int              `json:"limit"`
	Skip    int              `json:"skip"`
}

// ActivityLog records and reads the request and action history.
type ActivityLog interface {
	Record(ctx context.Context, entry *model.LogEntry) error
	RecordBatch(ctx context.Context, entries []*model.LogEntry) error
	Recent(ctx context.Context, opts model.LogQueryOptions) (ActivityPage, error)
}

// ActivityService implements ActivityLog on top of an ActivityStore.
type ActivityService struct {
	store ActivityStore
	now   func() time.Time
}

// NewActivityService returns an activity log writing to store.
func NewActivityService(store ActivityStore) *ActivityService {
	return &ActivityService{store: store, now: time.Now}
}

// Record stores a single entry, assigning its id and timestamp if unset.
func (s *ActivityService) Record(ctx context.Context, entry *model.LogEntry) error {
	s.stamp(entry)
	return s.store.Insert(ctx, entry)
}

// RecordBatch stores entries in one write.
func (s *ActivityService) RecordBatch(ctx context.Context, entries []*model.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	for _, e := range entries {
		s.stamp(e)
	}
	return s.store.InsertMany(ctx, entries)
}

// Recent returns matching entries, newest first, with the total match count.
func (s *ActivityService) Recent(ctx context.Context, opts model.LogQueryOptions) (ActivityPage, error) {
	switch {
	case opts.Limit <= 0:
		opts.Limit = DefaultActivityLimit
	case opts.Limit > MaxActivityLimit:
		opts.Limit = MaxActivityLimit
	}
	opts.Skip = max(opts.Skip, 0)

	entries, err := s.store.Find(ctx, opts)
	if err != nil {
		return ActivityPage{}, err
	}
	total, err := s.store.Count(ctx, opts)
	if err != nil {
		return ActivityPage{}, err
	}
	if entries == nil {
		entries = []model.LogEntry{}
	}
	return ActivityPage{Entries: entries, Total: total, Limit: opts.Limit, Skip: opts.Skip}, nil
}

func (s *ActivityService) stamp(e *model.LogEntry) {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now()
	}
}
