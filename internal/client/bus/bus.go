// Package bus is the in-process mediator the auth controller and dialog talk
// through.
//
// Delivery is synchronous on the publisher's goroutine, in subscription order.
// A handler may publish again; the nested event is delivered before Publish
// returns. A handler that panics is logged and skipped, later handlers still
// run.
package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/authdialog/internal/client/events"
	"github.com/dmitrijs2005/authdialog/internal/logging"
)

// Handler receives one event.
type Handler func(ctx context.Context, e events.Event)

// Mediator is the publish/subscribe surface injected into both components.
type Mediator interface {
	Publish(ctx context.Context, e events.Event)
	Subscribe(name events.Name, h Handler) (unsubscribe func())
}

type subscription struct {
	id uint64
	h  Handler
}

type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[events.Name][]subscription
	logger logging.Logger
}

func New(logger logging.Logger) *Bus {
	return &Bus{subs: make(map[events.Name][]subscription), logger: logger}
}

func (b *Bus) Subscribe(name events.Name, h Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[name] = append(b.subs[name], subscription{id: id, h: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(name, id) })
	}
}

func (b *Bus) remove(name events.Name, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.subs[name]
	for i, s := range list {
		if s.id == id {
			// copy so snapshots held by in-progress publishes stay intact
			next := make([]subscription, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			b.subs[name] = next
			break
		}
	}
	if len(b.subs[name]) == 0 {
		delete(b.subs, name)
	}
}

func (b *Bus) Publish(ctx context.Context, e events.Event) {
	name := e.EventName()

	b.mu.RLock()
	list := b.subs[name]
	b.mu.RUnlock()

	if len(list) == 0 {
		b.logger.Debug(ctx, "event has no subscribers", "event", string(name))
		return
	}

	b.logger.Debug(ctx, "publish", "event", string(name), "subscribers", len(list))
	for _, s := range list {
		b.deliver(ctx, name, s.h, e)
	}
}

func (b *Bus) deliver(ctx context.Context, name events.Name, h Handler, e events.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error(ctx, "event handler panicked", "event", string(name), "panic", fmt.Sprint(r))
		}
	}()
	h(ctx, e)
}

// On subscribes a handler typed to one payload. The event name is taken from
// T's zero value, so T must be a value type from package events.
func On[T events.Event](m Mediator, h func(ctx context.Context, e T)) func() {
	var zero T
	return m.Subscribe(zero.EventName(), func(ctx context.Context, e events.Event) {
		if typed, ok := e.(T); ok {
			h(ctx, typed)
		}
	})
}
