package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/cache"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/domain/model"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/metrics"
)

type countingStrategy struct {
	calls atomic.Int32
	cand  *Candidate
	delay time.Duration
}

func (s *countingStrategy) strategy() Strategy {
	return Strategy{
		Name: "counting",
		Resolve: func(context.Context, model.CoverQuery) (*Candidate, error) {
			s.calls.Add(1)
			time.Sleep(s.delay)
			return s.cand, nil
		},
	}
}

func newCoverService(clock *fakeClock, s *countingStrategy) (*CoverService, *cache.Cache[model.CoverResult]) {
	c := cache.New[model.CoverResult](cache.Config{Name: "cover", MaxEntries: 100, DefaultTTL: time.Hour}, cache.WithClock(clock.Now))
	return NewCoverService(NewCascade(s.strategy()), c), c
}

func TestCoverService_Lookup(t *testing.T) {
	t.Run("missing identifier", func(t *testing.T) {
		svc, _ := newCoverService(newFakeClock(), &countingStrategy{})

		_, err := svc.Lookup(context.Background(), model.CoverQuery{Author: "Frank Herbert"})

		assert.ErrorIs(t, err, ErrMissingIdentifier)
	})

	t.Run("success is cached for two days", func(t *testing.T) {
		clock := newFakeClock()
		s := &countingStrategy{cand: &Candidate{URL: "https://covers.openlibrary.org/b/isbn/1-M.jpg", Source: "Open Library ISBN M"}}
		svc, _ := newCoverService(clock, s)
		q := model.CoverQuery{ISBN: "9780441172719"}

		first, err := svc.Lookup(context.Background(), q)
		require.NoError(t, err)
		clock.Advance(47 * time.Hour)
		second, err := svc.Lookup(context.Background(), q)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, "Open Library ISBN M", second.Source)
		assert.EqualValues(t, 1, s.calls.Load())

		clock.Advance(2 * time.Hour)
		_, err = svc.Lookup(context.Background(), q)
		require.NoError(t, err)
		assert.EqualValues(t, 2, s.calls.Load())
	})

	t.Run("miss is cached for one hour", func(t *testing.T) {
		clock := newFakeClock()
		s := &countingStrategy{}
		svc, _ := newCoverService(clock, s)
		q := model.CoverQuery{Title: "Nothing"}

		res, err := svc.Lookup(context.Background(), q)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, NoCoverSource, res.Source)
		assert.Equal(t, NoCoverMessage, res.Error)

		_, err = svc.Lookup(context.Background(), q)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.EqualValues(t, 1, s.calls.Load())

		clock.Advance(61 * time.Minute)
		_, _ = svc.Lookup(context.Background(), q)
		assert.EqualValues(t, 2, s.calls.Load())
	})

	t.Run("placeholder author shares the cache entry", func(t *testing.T) {
		s := &countingStrategy{cand: &Candidate{URL: "https://libgen.is/covers/1-g.jpg", Source: SourceLibGenTitle}}
		svc, _ := newCoverService(newFakeClock(), s)

		_, err := svc.Lookup(context.Background(), model.CoverQuery{Title: "Dune", Author: model.UnknownAuthor})
		require.NoError(t, err)
		_, err = svc.Lookup(context.Background(), model.CoverQuery{Title: " Dune "})
		require.NoError(t, err)

		assert.EqualValues(t, 1, s.calls.Load())
	})

	t.Run("concurrent lookups run the cascade once", func(t *testing.T) {
		s := &countingStrategy{
			cand:  &Candidate{URL: "https://libgen.is/covers/1-g.jpg", Source: SourceLibGenDirect},
			delay: 50 * time.Millisecond,
		}
		svc, _ := newCoverService(newFakeClock(), s)
		q := model.CoverQuery{RawCoverURL: "1/abc.jpg"}

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := svc.Lookup(context.Background(), q)
				assert.NoError(t, err)
				assert.Equal(t, SourceLibGenDirect, res.Source)
			}()
		}
		wg.Wait()

		assert.EqualValues(t, 1, s.calls.Load())
	})

	t.Run("cancelled caller still completes the lookup", func(t *testing.T) {
		s := &countingStrategy{cand: &Candidate{URL: "https://libgen.is/covers/1-g.jpg", Source: SourceLibGenDirect}}
		svc, c := newCoverService(newFakeClock(), s)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		res, err := svc.Lookup(ctx, model.CoverQuery{ISBN: "123"})

		require.NoError(t, err)
		assert.True(t, res.Found())
		assert.Equal(t, 1, c.Len())
	})
}

func TestCoverService_Invalidate(t *testing.T) {
	s := &countingStrategy{cand: &Candidate{URL: "https://libgen.is/covers/1-g.jpg", Source: SourceLibGenDirect}}
	svc, c := newCoverService(newFakeClock(), s)
	q := model.CoverQuery{ISBN: "9780441172719", Title: "Dune"}

	_, err := svc.Lookup(context.Background(), q)
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	svc.Invalidate(model.CoverQuery{ISBN: " 9780441172719 ", Title: "Dune", Author: model.UnknownAuthor})
	assert.Equal(t, 0, c.Len())

	_, err = svc.Lookup(context.Background(), q)
	require.NoError(t, err)
	assert.EqualValues(t, 2, s.calls.Load())
}

func TestCoverService_CacheMetricsCountedOnce(t *testing.T) {
	const name = "cover-metrics"
	counter := func(op, result string) float64 {
		return testutil.ToFloat64(metrics.CacheOperationsTotal.WithLabelValues(name, op, result))
	}
	s := &countingStrategy{cand: &Candidate{URL: "https://covers.openlibrary.org/b/isbn/1-M.jpg", Source: "Open Library ISBN M"}}
	c := cache.New[model.CoverResult](cache.Config{Name: name, MaxEntries: 10, DefaultTTL: time.Hour})
	svc := NewCoverService(NewCascade(s.strategy()), c)
	q := model.CoverQuery{ISBN: "9780441172719"}

	misses, hits, deletes := counter("get", "miss"), counter("get", "hit"), counter("delete", "success")

	_, err := svc.Lookup(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, misses+1, counter("get", "miss"))

	_, err = svc.Lookup(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, hits+1, counter("get", "hit"))

	svc.Invalidate(q)
	assert.Equal(t, deletes+1, counter("delete", "success"))
	assert.Zero(t, counter("delete", "ok"))
}
