package audit

import (
	"context"
	"log/slog"
)

// Sink receives a copy of every appended event. Sinks are best-effort;
// failures are logged and never surface to callers.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Fanout wraps a primary store with additional sinks. Reads always come from
// the primary; writes go to the primary first and then to each sink.
type Fanout struct {
	primary Store
	sinks   []Sink
	logger  *slog.Logger
}

func NewFanout(primary Store, logger *slog.Logger, sinks ...Sink) *Fanout {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fanout{primary: primary, sinks: sinks, logger: logger}
}

func (f *Fanout) Append(ctx context.Context, event Event) error {
	if err := f.primary.Append(ctx, event); err != nil {
		return err
	}
	for _, sink := range f.sinks {
		if err := sink.Append(ctx, event); err != nil {
			f.logger.WarnContext(ctx, "audit sink append failed",
				slog.String("action", event.Action),
				slog.String("error", err.Error()))
		}
	}
	return nil
}

func (f *Fanout) ListByCertificate(ctx context.Context, certificateID string) ([]Event, error) {
	return f.primary.ListByCertificate(ctx, certificateID)
}

func (f *Fanout) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	return f.primary.ListRecent(ctx, limit)
}

// ChannelSink hands events to a background worker through a buffered channel.
// When the buffer is full the event is dropped rather than blocking the
// request path; the drop is logged.
type ChannelSink struct {
	ch     chan Event
	logger *slog.Logger
}

func NewChannelSink(buffer int, logger *slog.Logger) *ChannelSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChannelSink{ch: make(chan Event, buffer), logger: logger}
}

func (s *ChannelSink) Append(ctx context.Context, event Event) error {
	select {
	case s.ch <- event:
	default:
		s.logger.WarnContext(ctx, "audit queue full, dropping event",
			slog.String("action", event.Action))
	}
	return nil
}

// Inbox exposes the queue for a worker to drain.
func (s *ChannelSink) Inbox() <-chan Event {
	return s.ch
}
