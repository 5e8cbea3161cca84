//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/domain/model"
)

func TestActivityRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := setupTestDBFromSharedContainer(t)
	repo := NewActivityRepository(db)

	base := time.Now().UTC().Truncate(time.Millisecond)

	single := &model.LogEntry{
		Level:        "info",
		Message:      "Cover lookup",
		RequestID:    "req-cover",
		Path:         "/api/cover",
		ActivityType: model.ActivityCover,
		Timestamp:    base.Add(-3 * time.Minute),
	}
	single.WithField("source", "Open Library ISBN")
	require.NoError(t, repo.Insert(ctx, single))
	assert.False(t, single.ID.IsZero())

	batch := []*model.LogEntry{
		{Level: "info", Message: "Search", Path: "/api/search", ActivityType: model.ActivitySearch, Timestamp: base.Add(-2 * time.Minute)},
		{Level: "error", Message: "Download", Path: "/api/download", ActivityType: model.ActivityDownload, Timestamp: base.Add(-time.Minute)},
		{Level: "info", Message: "GET /api/search", Path: "/api/search", ActivityType: model.ActivityRequest},
	}
	require.NoError(t, repo.InsertMany(ctx, batch))
	require.NoError(t, repo.InsertMany(ctx, nil))

	t.Run("newest first", func(t *testing.T) {
		entries, err := repo.Find(ctx, model.LogQueryOptions{})
		require.NoError(t, err)
		require.Len(t, entries, 4)
		assert.Equal(t, "GET /api/search", entries[0].Message)
		assert.Equal(t, "Cover lookup", entries[3].Message)
		assert.Equal(t, "Open Library ISBN", entries[3].Fields["source"])
	})

	t.Run("filters", func(t *testing.T) {
		tests := []struct {
			name string
			opts model.LogQueryOptions
			want int64
		}{
			{"by request id", model.LogQueryOptions{RequestID: "req-cover"}, 1},
			{"by activity type", model.LogQueryOptions{ActivityType: model.ActivitySearch}, 1},
			{"by level", model.LogQueryOptions{Level: "error"}, 1},
			{"by path substring", model.LogQueryOptions{Path: "SEARCH"}, 2},
			{"by time", model.LogQueryOptions{StartTime: ptr(base.Add(-90 * time.Second))}, 2},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				n, err := repo.Count(ctx, tt.opts)
				require.NoError(t, err)
				assert.Equal(t, tt.want, n)

				entries, err := repo.Find(ctx, tt.opts)
				require.NoError(t, err)
				assert.Len(t, entries, int(tt.want))
			})
		}
	})

	t.Run("limit and skip", func(t *testing.T) {
		entries, err := repo.Find(ctx, model.LogQueryOptions{Limit: 2, Skip: 1})
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "Download", entries[0].Message)

		n, err := repo.Count(ctx, model.LogQueryOptions{Limit: 2, Skip: 1})
		require.NoError(t, err)
		assert.EqualValues(t, 4, n)
	})

	t.Run("no matches is an empty slice", func(t *testing.T) {
		entries, err := repo.Find(ctx, model.LogQueryOptions{RequestID: "missing"})
		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})
}

func ptr[T any](v T) *T { return &v }
