package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/cache"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/domain/model"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/metrics"
)

// Cover cache TTLs. Misses are retried sooner because sources come and go.
const (
	CoverSuccessTTL = 48 * time.Hour
	CoverFailureTTL = time.Hour
)

// NoCoverMessage is the error text cached and returned for a cover miss.
const NoCoverMessage = "No cover image found"

// NoCoverSource is the source reported for a cover miss.
const NoCoverSource = "None"

// CoverLookup resolves and invalidates book covers.
type CoverLookup interface {
	// Lookup returns the cover for q, or ErrNotFound with the cached miss.
	Lookup(ctx context.Context, q model.CoverQuery) (model.CoverResult, error)
	// Invalidate drops the cached result for q.
	Invalidate(q model.CoverQuery)
}

// CoverService runs the cascade behind the cover cache. Concurrent lookups
// for the same query share one cascade run.
type CoverService struct {
	cascade    *Cascade
	cache      *cache.Cache[model.CoverResult]
	group      singleflight.Group
	successTTL time.Duration
	failureTTL time.Duration
}

// NewCoverService returns a cover service caching into c.
func NewCoverService(cascade *Cascade, c *cache.Cache[model.CoverResult]) *CoverService {
	return &CoverService{
		cascade:    cascade,
		cache:      c,
		successTTL: CoverSuccessTTL,
		failureTTL: CoverFailureTTL,
	}
}

// Lookup implements CoverLookup. The cascade ignores the caller's
// cancellation and is bounded only by its per-call timeouts.
func (s *CoverService) Lookup(ctx context.Context, q model.CoverQuery) (model.CoverResult, error) {
	q = q.Normalize()
	if !q.HasIdentifier() {
		return model.CoverResult{}, ErrMissingIdentifier
	}

	start := time.Now()
	key := cache.CoverKey(q.ISBN, q.Title, q.Author, q.RawCoverURL)

	if cached, ok := s.cache.Get(key); ok {
		metrics.RecordCoverLookup(time.Since(start), "cached", cached.Source)
		return coverOutcome(cached)
	}

	detached := context.WithoutCancel(ctx)
	v, err, shared := s.group.Do(key, func() (any, error) {
		return s.resolve(detached, key, q)
	})
	if err != nil {
		metrics.RecordCoverLookup(time.Since(start), "error", "")
		return model.CoverResult{}, err
	}

	res, _ := v.(model.CoverResult)
	outcome := "miss"
	if res.Found() {
		outcome = "hit"
	}
	metrics.RecordCoverLookup(time.Since(start), outcome, res.Source)
	log.Debug().
		Str("isbn", q.ISBN).
		Str("title", q.Title).
		Str("source", res.Source).
		Bool("shared", shared).
		Dur("duration", time.Since(start)).
		Msg("Cover lookup finished")
	return coverOutcome(res)
}

func (s *CoverService) resolve(ctx context.Context, key string, q model.CoverQuery) (model.CoverResult, error) {
	cand, err := s.cascade.Resolve(ctx, q)
	switch {
	case err == nil:
		res := model.CoverResult{CoverURL: cand.URL, Source: cand.Source}
		s.cache.SetWithTTL(key, res, s.successTTL)
		return res, nil
	case errors.Is(err, ErrNotFound):
		res := model.CoverResult{Source: NoCoverSource, Error: NoCoverMessage}
		s.cache.SetWithTTL(key, res, s.failureTTL)
		return res, nil
	default:
		return model.CoverResult{}, err
	}
}

// Invalidate implements CoverLookup.
func (s *CoverService) Invalidate(q model.CoverQuery) {
	q = q.Normalize()
	s.cache.Delete(cache.CoverKey(q.ISBN, q.Title, q.Author, q.RawCoverURL))
}

func coverOutcome(res model.CoverResult) (model.CoverResult, error) {
	if res.Found() {
		return res, nil
	}
	return res, ErrNotFound
}
