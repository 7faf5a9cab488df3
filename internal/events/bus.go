// Package events carries the inventory-updated signal to every open view,
// inside one instance and across instances.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type EventType string

const EventInventoryUpdated EventType = "inventory.updated"

const DefaultSubscriberBuffer = 4

// Event tells subscribers to refetch. It carries ids only, never inventory data.
type Event struct {
	Type       EventType   `json:"type"`
	Reason     string      `json:"reason"`
	ProductIDs []uuid.UUID `json:"productIds,omitempty"`
	RequestID  *uuid.UUID  `json:"requestId,omitempty"`
	At         int64       `json:"at"`
	Origin     string      `json:"origin,omitempty"`
}

func NewInventoryUpdated(reason string, productIDs ...uuid.UUID) Event {
	return Event{
		Type:       EventInventoryUpdated,
		Reason:     reason,
		ProductIDs: productIDs,
		At:         time.Now().UnixMilli(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Marker reads the unix millis of the last published inventory change and
// the monotonic change counter.
type Marker interface {
	LastUpdate(ctx context.Context) (int64, error)
	Version(ctx context.Context) (int64, error)
}

// Bus is an in-process fan-out. Publish never blocks: a subscriber whose
// buffer is full already has a refresh pending, so the event is dropped for it.
type Bus struct {
	mu     sync.RWMutex
	subs   map[uint64]chan Event
	nextID uint64
	closed bool
}

func NewBus() *Bus {
	return &Bus{subs: make(map[uint64]chan Event)}
}

// Subscribe returns the event channel and a cancel func that must be called
// once the subscriber is done.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = DefaultSubscriberBuffer
	}

	ch := make(chan Event, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once

	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
}

func (b *Bus) Publish(_ context.Context, event Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}

	return nil
}

func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs)
}

// Close ends every subscription. Later subscribers get a closed channel.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true

	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
