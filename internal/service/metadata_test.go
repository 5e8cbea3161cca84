package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/cache"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/catalog"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/domain/model"
)

func newMetadataService(clock *fakeClock, cat *fakeCatalog) *MetadataService {
	c := cache.New[model.Book](cache.Config{Name: "metadata", MaxEntries: 200, DefaultTTL: MetadataTTL}, cache.WithClock(clock.Now))
	return NewMetadataService(cat, c)
}

func TestMetadataService_Lookup(t *testing.T) {
	t.Run("invalid md5", func(t *testing.T) {
		cat := &fakeCatalog{}
		svc := newMetadataService(newFakeClock(), cat)

		_, err := svc.Lookup(context.Background(), "abc")

		assert.ErrorIs(t, err, ErrInvalidFormat)
		assert.Zero(t, cat.lookups)
	})

	t.Run("found and cached for an hour", func(t *testing.T) {
		clock := newFakeClock()
		cat := &fakeCatalog{byMD5: map[string]catalog.Record{testMD5: duneRecord()}}
		svc := newMetadataService(clock, cat)

		book, err := svc.Lookup(context.Background(), testMD5)
		require.NoError(t, err)
		assert.Equal(t, "Dune", book.Title)
		assert.Equal(t, "9780441172719", book.ISBN)

		_, err = svc.Lookup(context.Background(), strings.ToUpper(testMD5))
		require.NoError(t, err)
		assert.Equal(t, 1, cat.lookups)

		clock.Advance(time.Hour + time.Second)
		_, err = svc.Lookup(context.Background(), testMD5)
		require.NoError(t, err)
		assert.Equal(t, 2, cat.lookups)
	})

	t.Run("unknown md5 is not cached", func(t *testing.T) {
		cat := &fakeCatalog{byMD5: map[string]catalog.Record{}}
		svc := newMetadataService(newFakeClock(), cat)

		_, err := svc.Lookup(context.Background(), testMD5)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = svc.Lookup(context.Background(), testMD5)
		assert.ErrorIs(t, err, ErrNotFound)

		assert.Equal(t, 2, cat.lookups)
	})

	t.Run("catalog failure", func(t *testing.T) {
		svc := newMetadataService(newFakeClock(), &fakeCatalog{err: errors.New("timeout")})

		_, err := svc.Lookup(context.Background(), testMD5)

		assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	})
}
