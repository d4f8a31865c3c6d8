package livesync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/snapline/internal/docsync"
	"github.com/google/uuid"
)

// subscription states. A subscription starts listening before the subscribe
// request goes out: the server delivers the initial snapshot to the inbox
// before it replies, so the stream must already be accepting emissions when
// the ack lands. closed and cancelled are terminal.
type state int

const (
	stateListening state = iota + 1
	stateClosed          // server-side error ended the stream
	stateCancelled       // consumer stopped listening
)

// Subscription is a live, non-restartable stream of full result-set
// snapshots for one query. Every emission replaces the previous one; there
// are no deltas. When the stream ends (error, Stop, or context cancellation)
// Updates is closed and Err reports the terminal error, if any.
//
// Teardown runs exactly once on every exit path. An un-torn-down subscription
// would leak a live server-side listener, so Stop (or the context) must
// always fire.
type Subscription[T any] struct {
	id      string
	conn    Conn
	updates chan []T

	mu  sync.Mutex
	st  state
	err error

	teardown func()
}

// Listen opens a subscription for query and returns once the server has
// acknowledged it. The current result set is pushed as the first emission.
// The subscription ends when ctx is cancelled, Stop is called, or the server
// reports an error; it never retries on its own: resubscribing is the
// caller's decision.
func Listen[T any](ctx context.Context, conn Conn, query docsync.Query) (*Subscription[T], error) {
	s := &Subscription[T]{
		id:      uuid.NewString(),
		conn:    conn,
		updates: make(chan []T, 1),
	}

	inbox := conn.NewInbox()
	unsub, err := conn.Subscribe(inbox, s.onSnapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to open inbox: %w", err)
	}

	s.teardown = sync.OnceFunc(func() {
		_ = unsub.Unsubscribe()
		s.mu.Lock()
		close(s.updates)
		s.mu.Unlock()

		payload, _ := json.Marshal(docsync.UnsubscribeRequest{ID: s.id})
		_ = conn.Publish(docsync.SubjectUnsubscribe, payload)
	})

	payload, err := json.Marshal(docsync.SubscribeRequest{ID: s.id, Query: query, Inbox: inbox})
	if err != nil {
		_ = unsub.Unsubscribe()
		return nil, fmt.Errorf("failed to encode subscribe request: %w", err)
	}

	// The initial snapshot can arrive on the inbox before the ack does.
	// Accept emissions from here on; a pre-ack push is buffered and read by
	// the consumer after Listen returns.
	s.mu.Lock()
	s.st = stateListening
	s.mu.Unlock()

	// Once the request is on the wire the server may have registered the
	// subscription even when the reply is lost or unusable, so every failure
	// below goes through the full teardown, unsubscribe publish included.
	reply, err := conn.Request(ctx, docsync.SubjectSubscribe, payload)
	if err != nil {
		s.Stop()
		return nil, fmt.Errorf("subscribe request failed: %w", err)
	}

	var ack docsync.Ack
	if err := json.Unmarshal(reply, &ack); err != nil {
		s.Stop()
		return nil, fmt.Errorf("malformed subscribe ack: %w", err)
	}
	if !ack.OK {
		s.Stop()
		return nil, fmt.Errorf("subscription rejected: %s", ack.Error)
	}

	// Scope exit tears the subscription down even if the consumer forgets.
	context.AfterFunc(ctx, s.Stop)

	return s, nil
}

// Updates yields one complete result set per server push, in server order.
// It is closed when the subscription reaches a terminal state.
func (s *Subscription[T]) Updates() <-chan []T {
	return s.updates
}

// Err reports the error that closed the stream, or nil after a plain Stop.
// Meaningful once Updates is closed.
func (s *Subscription[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Stop cancels the subscription and releases the server-side listener.
// Safe to call multiple times and concurrently with snapshot delivery.
func (s *Subscription[T]) Stop() {
	s.mu.Lock()
	if s.st != stateListening {
		s.mu.Unlock()
		return
	}
	s.st = stateCancelled
	s.mu.Unlock()

	s.teardown()
}

// onSnapshot handles one pushed payload from the inbox.
func (s *Subscription[T]) onSnapshot(data []byte) {
	var snap docsync.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// Malformed push: swallowed, never surfaced as a crash.
		return
	}

	if snap.Error != "" {
		s.fail(errors.New(snap.Error))
		return
	}

	docs := make([]T, 0, len(snap.Docs))
	for _, raw := range snap.Docs {
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			// A single undecodable document is dropped; the rest of the
			// snapshot still counts.
			continue
		}
		docs = append(docs, doc)
	}

	s.emit(docs)
}

// emit delivers docs unless the subscription is terminal. If the consumer has
// not drained the previous snapshot yet it is replaced: the most recent
// snapshot wins.
func (s *Subscription[T]) emit(docs []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st != stateListening {
		return
	}

	select {
	case <-s.updates:
	default:
	}
	s.updates <- docs
}

// fail transitions to the closed state and tears the subscription down.
func (s *Subscription[T]) fail(err error) {
	s.mu.Lock()
	if s.st != stateListening {
		s.mu.Unlock()
		return
	}
	s.st = stateClosed
	s.err = err
	s.mu.Unlock()

	s.teardown()
}
