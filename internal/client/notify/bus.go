// Package notify is the in-process change notification bus. The store
// layer publishes an event after each batch of local writes; the CLI (or
// any other reactive reader) re-reads the affected collection.
package notify

import (
	"sync"

	"github.com/dmitrijs2005/fittrack/internal/models"
)

// Event announces that records of one collection changed locally.
type Event struct {
	Kind models.EntityKind
}

// Bus fans events out to subscribers. Publishing never blocks: a
// subscriber that has fallen behind misses the event, which is safe
// because events carry no data and readers re-read the store anyway.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe returns the event channel and an unsubscribe function.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, 16)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
