package worker

import (
	"context"
	"log/slog"

	audit "sovereign/pkg/platform/audit"
)

// Worker consumes events from a channel and hands them to a sink. A failed
// append is logged and the worker moves on; delivery guarantees belong to
// the sink.
type Worker struct {
	sink   audit.Sink
	inbox  <-chan audit.Event
	logger *slog.Logger
}

func NewWorker(sink audit.Sink, inbox <-chan audit.Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run returns nil once the inbox is closed and drained, or ctx.Err() if the
// context ends first.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			if err := w.sink.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "failed to deliver audit event",
					"event", string(event.Type),
					"sovereign_id", event.SovereignID,
					"error", err,
				)
			}
		}
	}
}
