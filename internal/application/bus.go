package application

import (
	"sync"

	"github.com/gplaydev/gtv-sdk-go/internal/domain"
)

// Listener receives dispatched events synchronously in the dispatcher's
// goroutine.
type Listener func(event domain.Event)

// EventBus delivers named events to an ordered list of subscribers. There
// is no queueing and no retry: a dispatch with no subscribers is a no-op,
// and events are observed in dispatch order per goroutine.
type EventBus struct {
	mu     sync.Mutex
	nextID uint64
	subs   []busSubscriber
}

type busSubscriber struct {
	id uint64
	fn Listener
}

// Subscription identifies one registered listener.
type Subscription struct {
	bus *EventBus
	id  uint64
}

func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers fn and returns its subscription. Subscribers are
// invoked in registration order.
func (b *EventBus) Subscribe(fn Listener) *Subscription {
	if fn == nil {
		return &Subscription{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{bus: b, id: b.nextID}
	b.subs = append(b.subs, busSubscriber{id: sub.id, fn: fn})

	return sub
}

// Dispatch invokes every current subscriber with the event. Subscribers
// run outside the bus lock, so they may subscribe or cancel freely.
func (b *EventBus) Dispatch(name domain.EventName, payload any) {
	b.mu.Lock()
	subs := make([]busSubscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	event := domain.Event{Name: name, Payload: payload}
	for _, sub := range subs {
		sub.fn(event)
	}
}

// Cancel removes the listener from the bus. Cancelling twice is a no-op.
func (s *Subscription) Cancel() {
	if s == nil || s.bus == nil {
		return
	}

	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()

	for i, sub := range s.bus.subs {
		if sub.id == s.id {
			s.bus.subs = append(s.bus.subs[:i], s.bus.subs[i+1:]...)
			break
		}
	}
	s.bus = nil
}
