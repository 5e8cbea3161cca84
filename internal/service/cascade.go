package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/domain/model"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/metrics"
)

var tracer = otel.Tracer("github.com/DANIELMWENDWA9451/Daniels-Library/internal/service")

// Candidate is a validated cover image.
type Candidate struct {
	URL    string
	Source string
}

// Strategy is one cover source. Resolve returns nil, nil when the source has
// nothing for the query.
type Strategy struct {
	Name    string
	Resolve func(ctx context.Context, q model.CoverQuery) (*Candidate, error)
}

// Cascade tries its strategies in order and stops at the first candidate.
type Cascade struct {
	strategies []Strategy
}

// NewCascade returns a cascade over strategies in the given order.
func NewCascade(strategies ...Strategy) *Cascade {
	return &Cascade{strategies: strategies}
}

// Strategies returns the strategy names in order.
func (c *Cascade) Strategies() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name
	}
	return names
}

// Resolve returns the first candidate any strategy produces, or ErrNotFound.
// Strategy errors and panics are logged and treated as "no result".
func (c *Cascade) Resolve(ctx context.Context, q model.CoverQuery) (*Candidate, error) {
	ctx, span := tracer.Start(ctx, "cover.cascade")
	defer span.End()

	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		cand, err := c.run(ctx, s, q)
		switch {
		case err != nil:
			metrics.RecordStrategyAttempt(s.Name, "error")
			log.Debug().Err(err).Str("strategy", s.Name).Msg("Cover strategy failed")
		case cand == nil:
			metrics.RecordStrategyAttempt(s.Name, "miss")
		default:
			metrics.RecordStrategyAttempt(s.Name, "hit")
			span.SetAttributes(attribute.String("cover.source", cand.Source))
			return cand, nil
		}
	}
	return nil, ErrNotFound
}

func (c *Cascade) run(ctx context.Context, s Strategy, q model.CoverQuery) (cand *Candidate, err error) {
	ctx, span := tracer.Start(ctx, "cover.strategy", trace.WithAttributes(attribute.String("cover.strategy", s.Name)))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("strategy", s.Name).Interface("panic", r).Msg("Cover strategy panicked")
			cand, err = nil, fmt.Errorf("strategy %s panicked: %v", s.Name, r)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	return s.Resolve(ctx, q)
}
