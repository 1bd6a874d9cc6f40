package events

import (
	"context"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Handler consumes an event.
type Handler func(ctx context.Context, event *Event) error

var _ Publisher = (*Bus)(nil)

// Bus delivers events synchronously to in-process subscribers. Every
// subscriber is called even when an earlier one fails.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers = append(b.handlers, handler)
}

func (b *Bus) Publish(ctx context.Context, event *Event) error {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	var result *multierror.Error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

func (b *Bus) Close() error {
	return nil
}
