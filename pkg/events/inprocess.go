package events

import (
	"context"
	"errors"
	"sync"
)

// InProcessPublisher dispatches events synchronously to subscribed handlers.
// It is used when no broker is configured.
type InProcessPublisher struct {
	mu       sync.RWMutex
	handlers []Handler
}

func NewInProcessPublisher(handlers ...Handler) *InProcessPublisher {
	return &InProcessPublisher{handlers: handlers}
}

func (p *InProcessPublisher) Subscribe(h Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers = append(p.handlers, h)
}

// Publish runs every handler and joins their errors.
func (p *InProcessPublisher) Publish(ctx context.Context, event BookingEvent) error {
	p.mu.RLock()
	handlers := p.handlers
	p.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
