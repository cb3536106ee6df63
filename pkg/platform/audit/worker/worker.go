package worker

import (
	"context"
	"log/slog"

	audit "certseal/pkg/platform/audit"
)

// Worker drains queued audit events into a sink. Issuance and verification
// hot paths enqueue and move on; sink latency never blocks a request.
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

// Run consumes the inbox until the context is cancelled. Sink failures are
// logged and the event dropped; the worker itself stays up.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Append(ctx, event); err != nil {
				w.logger.WarnContext(ctx, "audit sink append failed",
					slog.String("action", event.Action),
					slog.String("error", err.Error()))
			}
		}
	}
}
