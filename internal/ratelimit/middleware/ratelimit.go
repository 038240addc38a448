package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"sovereign/internal/ratelimit/metrics"
	"sovereign/internal/ratelimit/models"
	"sovereign/pkg/platform/httputil"
	"sovereign/pkg/requestcontext"
)

// BucketStore admits or denies one request against a key's window.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
}

type Middleware struct {
	store   BucketStore
	limit   int
	window  time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Middleware)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Middleware) {
		m.logger = logger
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = mt
	}
}

// New limits every caller to limit requests per sliding window.
func New(store BucketStore, limit int, window time.Duration, opts ...Option) *Middleware {
	m := &Middleware{
		store:  store,
		limit:  limit,
		window: window,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RateLimitCaller must run after authentication; requests without a caller
// pass through. A failing store lets the request through.
func (m *Middleware) RateLimitCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		caller := requestcontext.Caller(ctx)
		if caller.IsZero() {
			next.ServeHTTP(w, r)
			return
		}

		result, err := m.store.Allow(ctx, models.CallerKey(caller.String()), m.limit, m.window)
		if err != nil {
			m.logger.ErrorContext(ctx, "failed to check caller rate limit",
				"caller", caller.String(),
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
			if m.metrics != nil {
				m.metrics.IncrementCheckErrors()
			}
			next.ServeHTTP(w, r)
			return
		}

		addRateLimitHeaders(w, result)
		if !result.Allowed {
			m.logger.WarnContext(ctx, "caller rate limited",
				"caller", caller.String(),
				"request_id", requestcontext.RequestID(ctx),
				"retry_after", result.RetryAfter,
			)
			if m.metrics != nil {
				m.metrics.IncrementRejected(r.Method)
			}
			writeRateLimitExceeded(w, result)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.RateLimitExceededResponse{
		Error:       "rate_limit_exceeded",
		Description: "too many requests, try again later",
		RetryAfter:  result.RetryAfter,
	})
}
