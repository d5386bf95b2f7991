package audit

import (
	"context"
	"log/slog"
	"sync"
)

// Publisher emits audit events to a Store, either synchronously or through
// a buffered channel drained by a background worker.
//
// Async mode decouples the renewal hot path from the audit backend; Close
// drains the buffer so no event recorded before shutdown is lost.
type Publisher struct {
	store  Store
	logger *slog.Logger

	events chan Event
	wg     sync.WaitGroup
	once   sync.Once
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithAsyncBuffer switches the publisher to async mode with the given
// channel capacity.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.events = make(chan Event, size)
		}
	}
}

// WithLogger sets the logger used for emit failures in async mode.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// NewPublisher creates a publisher over the given store.
func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.events != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit records an event. In async mode the event is queued; a full queue
// falls back to a synchronous append rather than dropping the record.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if p.events == nil {
		return p.store.Append(ctx, event)
	}
	select {
	case p.events <- event:
		return nil
	default:
		return p.store.Append(ctx, event)
	}
}

// List reads back events for a policy when the store supports it.
func (p *Publisher) List(ctx context.Context, policyID string) ([]Event, error) {
	lister, ok := p.store.(Lister)
	if !ok {
		return nil, nil
	}
	return lister.List(ctx, policyID)
}

// Close stops the async worker after draining queued events.
func (p *Publisher) Close() {
	p.once.Do(func() {
		if p.events != nil {
			close(p.events)
			p.wg.Wait()
		}
	})
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.events {
		if err := p.store.Append(context.Background(), event); err != nil {
			p.logger.Error("audit append failed", "action", event.Action, "policy_id", event.PolicyID, "error", err)
		}
	}
}
