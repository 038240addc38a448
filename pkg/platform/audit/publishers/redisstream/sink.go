// Package redisstream appends lifecycle events to a Redis stream.
package redisstream

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	audit "sovereign/pkg/platform/audit"
)

// DefaultMaxLen bounds the stream length; trimming is approximate.
const DefaultMaxLen = 100_000

type Sink struct {
	client redis.Cmdable
	stream string
	maxLen int64
}

type Option func(*Sink)

func WithMaxLen(n int64) Option {
	return func(s *Sink) {
		s.maxLen = n
	}
}

func New(client redis.Cmdable, stream string, opts ...Option) (*Sink, error) {
	if client == nil {
		return nil, errors.New("redis stream sink requires a client")
	}
	if stream == "" {
		return nil, errors.New("redis stream sink requires a stream name")
	}
	s := &Sink{client: client, stream: stream, maxLen: DefaultMaxLen}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Sink) Append(ctx context.Context, event audit.Event) error {
	payload, err := audit.Marshal(event)
	if err != nil {
		return err
	}
	err = s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: map[string]any{
			"type":         string(event.Type),
			"sovereign_id": event.SovereignID,
			"payload":      payload,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}

// Read returns up to count events from the start of the stream.
func (s *Sink) Read(ctx context.Context, count int64) ([]audit.Event, error) {
	msgs, err := s.client.XRangeN(ctx, s.stream, "-", "+", count).Result()
	if err != nil {
		return nil, fmt.Errorf("xrange %s: %w", s.stream, err)
	}
	out := make([]audit.Event, 0, len(msgs))
	for _, msg := range msgs {
		raw, ok := msg.Values["payload"].(string)
		if !ok {
			continue
		}
		ev, err := audit.Unmarshal([]byte(raw))
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}
