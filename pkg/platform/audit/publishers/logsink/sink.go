// Package logsink writes lifecycle events to a structured logger. It is the
// default sink and the fallback for the external ones.
package logsink

import (
	"context"
	"log/slog"

	audit "sovereign/pkg/platform/audit"
)

type Sink struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{logger: logger}
}

func (s *Sink) Append(ctx context.Context, event audit.Event) error {
	attrs := []any{
		"log_type", "audit",
		"event_id", event.ID,
		"event", string(event.Type),
		"category", string(event.Category()),
		"sovereign_id", event.SovereignID,
		"actor", event.Actor,
		"request_id", event.RequestID,
	}
	for name, v := range event.Amounts {
		attrs = append(attrs, name, v)
	}
	s.logger.InfoContext(ctx, string(event.Type), attrs...)
	return nil
}
