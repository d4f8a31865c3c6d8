package docsync

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dmitrijs2005/snapline/internal/docsync"
	"github.com/dmitrijs2005/snapline/internal/logging"
)

// Publisher pushes snapshot payloads to subscriber inboxes.
type Publisher interface {
	Publish(subject string, data []byte) error
}

type subscription struct {
	id    string
	query docsync.Query
	inbox string
}

// Service owns the live subscriptions. Every accepted subscription gets an
// immediate snapshot; every write triggers fresh snapshots for the
// subscriptions it may affect. A subscription whose query starts failing is
// sent a terminal error snapshot and dropped.
type Service struct {
	store  Store
	pub    Publisher
	logger logging.Logger

	mu   sync.Mutex
	subs map[string]*subscription
}

func NewService(store Store, pub Publisher, logger logging.Logger) *Service {
	return &Service{
		store:  store,
		pub:    pub,
		logger: logger,
		subs:   make(map[string]*subscription),
	}
}

// HandleSubscribe registers the subscription and pushes its first snapshot.
// The returned bytes are the ack reply.
func (s *Service) HandleSubscribe(ctx context.Context, data []byte) []byte {
	var req docsync.SubscribeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return ack(false, "invalid subscribe request")
	}
	if req.ID == "" || req.Inbox == "" {
		return ack(false, "subscribe request must carry id and inbox")
	}

	docs, err := s.store.Query(ctx, req.Query)
	if err != nil {
		s.logger.Warn(ctx, "subscription rejected", "id", req.ID, "error", err.Error())
		return ack(false, err.Error())
	}

	sub := &subscription{id: req.ID, query: req.Query, inbox: req.Inbox}

	s.mu.Lock()
	s.subs[req.ID] = sub
	s.mu.Unlock()

	s.logger.Info(ctx, "subscription opened",
		"id", req.ID, "collection", req.Query.Collection, "limit", req.Query.Limit)

	s.push(ctx, sub, docs, "")
	return ack(true, "")
}

// HandleUnsubscribe drops the subscription. Unknown ids are ignored: the
// client may unsubscribe after the server already dropped it.
func (s *Service) HandleUnsubscribe(ctx context.Context, data []byte) {
	var req docsync.UnsubscribeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return
	}

	s.mu.Lock()
	_, found := s.subs[req.ID]
	delete(s.subs, req.ID)
	s.mu.Unlock()

	if found {
		s.logger.Info(ctx, "subscription closed", "id", req.ID)
	}
}

// HandleCreateMessage persists a new message and refreshes every
// subscription that could see it, chats included since unread counters and
// summaries derive from messages.
func (s *Service) HandleCreateMessage(ctx context.Context, data []byte) []byte {
	var req docsync.CreateRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return createResponse("", "invalid create request")
	}

	id, err := s.store.CreateMessage(ctx, req.Doc)
	if err != nil {
		s.logger.Error(ctx, "message create failed", "error", err.Error())
		return createResponse("", err.Error())
	}

	s.republish(ctx, docsync.CollectionMessages, docsync.CollectionChats)
	return createResponse(id, "")
}

// HandleUpdateChat applies a chat patch and refreshes chat subscriptions.
func (s *Service) HandleUpdateChat(ctx context.Context, data []byte) []byte {
	var req docsync.UpdateRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return ack(false, "invalid update request")
	}

	if err := s.store.UpdateChat(ctx, req.ID, req.Fields); err != nil {
		s.logger.Error(ctx, "chat update failed", "id", req.ID, "error", err.Error())
		return ack(false, err.Error())
	}

	s.republish(ctx, docsync.CollectionChats)
	return ack(true, "")
}

// HandleUpdateMessage applies a message patch and refreshes both
// collections: flipping a read flag changes unread counters on chats.
func (s *Service) HandleUpdateMessage(ctx context.Context, data []byte) []byte {
	var req docsync.UpdateRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return ack(false, "invalid update request")
	}

	if err := s.store.UpdateMessage(ctx, req.ID, req.Fields); err != nil {
		s.logger.Error(ctx, "message update failed", "id", req.ID, "error", err.Error())
		return ack(false, err.Error())
	}

	s.republish(ctx, docsync.CollectionMessages, docsync.CollectionChats)
	return ack(true, "")
}

// republish recomputes and pushes snapshots for every subscription on the
// given collections.
func (s *Service) republish(ctx context.Context, collections ...string) {
	affected := make(map[string]bool, len(collections))
	for _, c := range collections {
		affected[c] = true
	}

	s.mu.Lock()
	targets := make([]*subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		if affected[sub.query.Collection] {
			targets = append(targets, sub)
		}
	}
	s.mu.Unlock()

	for _, sub := range targets {
		docs, err := s.store.Query(ctx, sub.query)
		if err != nil {
			s.logger.Error(ctx, "snapshot query failed", "id", sub.id, "error", err.Error())
			s.push(ctx, sub, nil, err.Error())

			s.mu.Lock()
			delete(s.subs, sub.id)
			s.mu.Unlock()
			continue
		}
		s.push(ctx, sub, docs, "")
	}
}

func (s *Service) push(ctx context.Context, sub *subscription, docs []json.RawMessage, errMsg string) {
	snap := docsync.Snapshot{SubscriptionID: sub.id, Docs: docs, Error: errMsg}
	data, err := json.Marshal(snap)
	if err != nil {
		s.logger.Error(ctx, "snapshot marshal failed", "id", sub.id, "error", err.Error())
		return
	}
	if err := s.pub.Publish(sub.inbox, data); err != nil {
		s.logger.Warn(ctx, "snapshot publish failed", "id", sub.id, "error", err.Error())
	}
}

func ack(ok bool, errMsg string) []byte {
	b, _ := json.Marshal(docsync.Ack{OK: ok, Error: errMsg})
	return b
}

func createResponse(id, errMsg string) []byte {
	b, _ := json.Marshal(docsync.CreateResponse{ID: id, Error: errMsg})
	return b
}
