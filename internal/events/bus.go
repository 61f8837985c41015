// Package events fans sequencer notifications out to independent listeners.
//
// Publish never blocks: a subscriber whose channel is full misses the event
// and the drop is counted in its stats. Renderers that only care about the
// latest state should query the sequencer instead of relying on every event.
package events

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/ivlev/ledsign/internal/sequencer"
)

var (
	// ErrSubscriberExists is returned when Subscribe is called with a duplicate id.
	ErrSubscriberExists = errors.New("subscriber id already exists")

	// ErrSubscriberNotFound is returned when Unsubscribe or Stats is called with an unknown id.
	ErrSubscriberNotFound = errors.New("subscriber id not found")

	// ErrBusClosed is returned when operations are attempted on a closed bus.
	ErrBusClosed = errors.New("bus is closed")

	// ErrNilChannel is returned when Subscribe is given a nil channel.
	ErrNilChannel = errors.New("subscriber channel is nil")
)

// SubscriberStats tracks delivery for one subscriber
type SubscriberStats struct {
	Sent    uint64
	Dropped uint64
}

// Stats is a snapshot of bus-wide and per-subscriber counters
type Stats struct {
	TotalPublished uint64
	Subscribers    map[string]SubscriberStats
}

type subscriber struct {
	ch      chan<- sequencer.Event
	sent    atomic.Uint64
	dropped atomic.Uint64
}

// Bus distributes events to subscribers with a drop-new policy.
type Bus struct {
	mu             sync.RWMutex
	subscribers    map[string]*subscriber
	order          []string
	totalPublished atomic.Uint64
	closed         bool
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{subscribers: make(map[string]*subscriber)}
}

// Subscribe registers ch under id.
func (b *Bus) Subscribe(id string, ch chan<- sequencer.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBusClosed
	}
	if ch == nil {
		return ErrNilChannel
	}
	if _, exists := b.subscribers[id]; exists {
		return ErrSubscriberExists
	}

	b.subscribers[id] = &subscriber{ch: ch}
	b.order = append(b.order, id)
	return nil
}

// Unsubscribe removes a subscriber. Its channel is not closed.
func (b *Bus) Unsubscribe(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBusClosed
	}
	if _, exists := b.subscribers[id]; !exists {
		return ErrSubscriberNotFound
	}

	delete(b.subscribers, id)
	for i, sid := range b.order {
		if sid == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return nil
}

// Publish delivers events in order to every subscriber, in subscription order.
// Publishing on a closed bus does nothing.
func (b *Bus) Publish(events ...sequencer.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, e := range events {
		b.totalPublished.Add(1)
		for _, id := range b.order {
			sub := b.subscribers[id]
			select {
			case sub.ch <- e:
				sub.sent.Add(1)
			default:
				sub.dropped.Add(1)
			}
		}
	}
}

// Stats returns a snapshot of the counters
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	st := Stats{
		TotalPublished: b.totalPublished.Load(),
		Subscribers:    make(map[string]SubscriberStats, len(b.subscribers)),
	}
	for id, sub := range b.subscribers {
		st.Subscribers[id] = SubscriberStats{Sent: sub.sent.Load(), Dropped: sub.dropped.Load()}
	}
	return st
}

// Close detaches every subscriber. Subsequent Subscribe/Unsubscribe return ErrBusClosed.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBusClosed
	}
	b.closed = true
	b.subscribers = nil
	b.order = nil
	return nil
}
