// Package guarded wraps an external event sink with a circuit breaker. Events
// the primary cannot take go to the fallback instead of being lost.
package guarded

import (
	"context"
	"log/slog"

	audit "sovereign/pkg/platform/audit"
	"sovereign/pkg/platform/circuit"
)

type Sink struct {
	primary  audit.Sink
	fallback audit.Sink
	breaker  *circuit.Breaker
	logger   *slog.Logger
	metrics  *Metrics
}

type Option func(*Sink)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sink) {
		s.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Sink) {
		s.metrics = m
	}
}

func New(primary, fallback audit.Sink, breaker *circuit.Breaker, opts ...Option) *Sink {
	s := &Sink{
		primary:  primary,
		fallback: fallback,
		breaker:  breaker,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sink) Append(ctx context.Context, event audit.Event) error {
	if !s.breaker.Allow() {
		s.metrics.incFallback()
		return s.fallback.Append(ctx, event)
	}

	if err := s.primary.Append(ctx, event); err != nil {
		s.metrics.incPrimaryFailure()
		_, change := s.breaker.RecordFailure()
		if change.Opened {
			s.metrics.setOpen(true)
			s.logger.WarnContext(ctx, "event sink circuit opened",
				"breaker", s.breaker.Name(),
				"error", err,
			)
		}
		s.metrics.incFallback()
		return s.fallback.Append(ctx, event)
	}

	s.metrics.incDelivered()
	if _, change := s.breaker.RecordSuccess(); change.Closed {
		s.metrics.setOpen(false)
		s.logger.InfoContext(ctx, "event sink circuit closed", "breaker", s.breaker.Name())
	}
	return nil
}
