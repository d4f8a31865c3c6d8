package session

import (
	"sync"
	"time"
)

// Reason classifies a session invalidation event.
type Reason string

const (
	// ReasonTokenExpired means the backend rejected the token (HTTP 401).
	ReasonTokenExpired Reason = "token_expired"
	// ReasonLoggedOut means the user logged out locally.
	ReasonLoggedOut Reason = "logged_out"
)

// Event announces that the current session is no longer valid.
type Event struct {
	Reason Reason
	At     time.Time
}

// Bus is a process-wide broadcast point for session events. Any component
// that detects invalidation can Send without holding a reference to whoever
// reacts to it.
//
// Delivery is best effort: Send never blocks, and a subscriber whose buffer
// is full misses the event. The most recent event is retained, so a late
// subscriber still observes it once (replay buffer of 1). A missed signal
// only delays a forced logout; it cannot corrupt state.
//
// The Bus is constructed once in main and injected; it lives for the process
// lifetime and is never torn down.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
	last *Event
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Send broadcasts e to all current subscribers and retains it for late ones.
func (b *Bus) Send(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.last = &e
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers a new consumer. The returned channel first receives the
// retained last event, if any. The cancel function must be called when the
// consumer stops listening; it is idempotent.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, 1)
	if b.last != nil {
		ch <- *b.last
	}

	id := b.next
	b.next++
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
	return ch, cancel
}
