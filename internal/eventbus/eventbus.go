package eventbus

import (
	"log/slog"
	"slices"

	"selkit/internal/domain"
	"selkit/internal/log"
)

// Re-export domain types for convenience
type Event = domain.Event
type EventType = domain.EventType

// Handler is a function that handles selection events
type Handler func(Event)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event Event)
	Subscribe(eventType EventType, handler Handler) func()
}

type subscription struct {
	id      uint64
	handler Handler
}

// bus is a synchronous, single-goroutine EventBus. Handlers run in
// subscription order on the publishing goroutine and may publish or
// (un)subscribe again; such changes apply from the next Publish on.
type bus struct {
	handlers map[EventType][]subscription
	nextID   uint64
	logger   *slog.Logger
}

// Option configures a bus
type Option func(*bus)

// WithLogger sets the logger used to trace published events
func WithLogger(l *slog.Logger) Option {
	return func(b *bus) {
		if l != nil {
			b.logger = l
		}
	}
}

// New creates a new event bus
func New(opts ...Option) EventBus {
	b := &bus{
		handlers: make(map[EventType][]subscription),
		logger:   log.Discard(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish delivers an event to all subscribers of its type
func (b *bus) Publish(event Event) {
	handlers := b.handlers[event.Type()]
	if len(handlers) == 0 {
		return
	}

	// Property changes are too frequent to be worth tracing
	if event.Type() != domain.EventPropertyChanged {
		b.logger.Debug("publishing event", "type", event.Type(), "handlers", len(handlers))
	}

	// Copy so handlers can (un)subscribe while we iterate
	for _, s := range slices.Clone(handlers) {
		s.handler(event)
	}
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler Handler) func() {
	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.handlers[eventType] = slices.DeleteFunc(b.handlers[eventType], func(s subscription) bool {
			return s.id == id
		})
	}
}
