package audit

import (
	"context"
	"log/slog"
	"time"
)

const defaultInboxSize = 256

// Publisher accepts events from domain code and hands them to the worker
// through a buffered inbox. Emit never blocks: when the inbox is full the
// event is dropped and counted against the log, not the caller.
type Publisher struct {
	inbox  chan Event
	now    func() time.Time
	logger *slog.Logger
}

type PublisherOption func(*Publisher)

func WithLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) { p.logger = logger }
}

func WithInboxSize(n int) PublisherOption {
	return func(p *Publisher) { p.inbox = make(chan Event, n) }
}

func WithClock(now func() time.Time) PublisherOption {
	return func(p *Publisher) { p.now = now }
}

func NewPublisher(opts ...PublisherOption) *Publisher {
	p := &Publisher{
		inbox:  make(chan Event, defaultInboxSize),
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) Emit(ctx context.Context, e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = p.now().UTC()
	}
	select {
	case p.inbox <- e:
	default:
		p.logger.WarnContext(ctx, "audit inbox full, event dropped",
			slog.String("action", string(e.Action)))
	}
}

// Inbox is consumed by the worker.
func (p *Publisher) Inbox() <-chan Event { return p.inbox }
