package docsync

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/snapline/internal/docsync"
	"github.com/dmitrijs2005/snapline/internal/logging"
)

type fakeStore struct {
	docs     map[string][]json.RawMessage
	queryErr error

	created []json.RawMessage
	updates []string
}

func (f *fakeStore) Query(ctx context.Context, q docsync.Query) ([]json.RawMessage, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.docs[q.Collection], nil
}

func (f *fakeStore) CreateMessage(ctx context.Context, doc json.RawMessage) (string, error) {
	f.created = append(f.created, doc)
	return "msg-1", nil
}

func (f *fakeStore) UpdateChat(ctx context.Context, id string, fields json.RawMessage) error {
	f.updates = append(f.updates, "chat:"+id)
	return nil
}

func (f *fakeStore) UpdateMessage(ctx context.Context, id string, fields json.RawMessage) error {
	f.updates = append(f.updates, "message:"+id)
	return nil
}

type published struct {
	subject string
	data    []byte
}

type fakePublisher struct {
	msgs []published
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	f.msgs = append(f.msgs, published{subject: subject, data: data})
	return nil
}

func (f *fakePublisher) snapshots(t *testing.T, inbox string) []docsync.Snapshot {
	t.Helper()
	var result []docsync.Snapshot
	for _, m := range f.msgs {
		if m.subject != inbox {
			continue
		}
		var snap docsync.Snapshot
		require.NoError(t, json.Unmarshal(m.data, &snap))
		result = append(result, snap)
	}
	return result
}

func newTestService(store *fakeStore) (*Service, *fakePublisher) {
	pub := &fakePublisher{}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewService(store, pub, logger), pub
}

func subscribeReq(t *testing.T, id, collection, inbox string) []byte {
	t.Helper()
	b, err := json.Marshal(docsync.SubscribeRequest{
		ID:    id,
		Inbox: inbox,
		Query: docsync.Query{Collection: collection},
	})
	require.NoError(t, err)
	return b
}

func TestHandleSubscribe_PushesInitialSnapshot(t *testing.T) {
	store := &fakeStore{docs: map[string][]json.RawMessage{
		"messages": {json.RawMessage(`{"id":"m1"}`), json.RawMessage(`{"id":"m2"}`)},
	}}
	svc, pub := newTestService(store)

	resp := svc.HandleSubscribe(context.Background(), subscribeReq(t, "sub-1", "messages", "inbox.1"))

	var a docsync.Ack
	require.NoError(t, json.Unmarshal(resp, &a))
	assert.True(t, a.OK)

	snaps := pub.snapshots(t, "inbox.1")
	require.Len(t, snaps, 1)
	assert.Equal(t, "sub-1", snaps[0].SubscriptionID)
	assert.Len(t, snaps[0].Docs, 2)
}

func TestHandleSubscribe_RejectsFailingQuery(t *testing.T) {
	store := &fakeStore{queryErr: errors.New("bad query")}
	svc, pub := newTestService(store)

	resp := svc.HandleSubscribe(context.Background(), subscribeReq(t, "sub-1", "messages", "inbox.1"))

	var a docsync.Ack
	require.NoError(t, json.Unmarshal(resp, &a))
	assert.False(t, a.OK)
	assert.Contains(t, a.Error, "bad query")
	assert.Empty(t, pub.msgs, "rejected subscriptions get no snapshot")
}

func TestHandleCreateMessage_RepublishesBothCollections(t *testing.T) {
	store := &fakeStore{docs: map[string][]json.RawMessage{}}
	svc, pub := newTestService(store)

	svc.HandleSubscribe(context.Background(), subscribeReq(t, "msgs", "messages", "inbox.m"))
	svc.HandleSubscribe(context.Background(), subscribeReq(t, "chats", "chats", "inbox.c"))
	before := len(pub.msgs)

	resp := svc.HandleCreateMessage(context.Background(),
		mustMarshal(t, docsync.CreateRequest{Doc: json.RawMessage(`{"chatId":"c1"}`)}))

	var cr docsync.CreateResponse
	require.NoError(t, json.Unmarshal(resp, &cr))
	assert.Equal(t, "msg-1", cr.ID)
	assert.Empty(t, cr.Error)

	assert.Len(t, pub.msgs, before+2, "one fresh snapshot per affected subscription")
	assert.Len(t, pub.snapshots(t, "inbox.m"), 2)
	assert.Len(t, pub.snapshots(t, "inbox.c"), 2)
}

func TestHandleUpdateChat_RepublishesChatsOnly(t *testing.T) {
	store := &fakeStore{docs: map[string][]json.RawMessage{}}
	svc, pub := newTestService(store)

	svc.HandleSubscribe(context.Background(), subscribeReq(t, "msgs", "messages", "inbox.m"))
	svc.HandleSubscribe(context.Background(), subscribeReq(t, "chats", "chats", "inbox.c"))

	resp := svc.HandleUpdateChat(context.Background(),
		mustMarshal(t, docsync.UpdateRequest{ID: "c1", Fields: json.RawMessage(`{}`)}))

	var a docsync.Ack
	require.NoError(t, json.Unmarshal(resp, &a))
	assert.True(t, a.OK)

	assert.Equal(t, []string{"chat:c1"}, store.updates)
	assert.Len(t, pub.snapshots(t, "inbox.m"), 1, "messages subscription sees only its initial snapshot")
	assert.Len(t, pub.snapshots(t, "inbox.c"), 2)
}

func TestHandleUnsubscribe_StopsSnapshots(t *testing.T) {
	store := &fakeStore{docs: map[string][]json.RawMessage{}}
	svc, pub := newTestService(store)

	svc.HandleSubscribe(context.Background(), subscribeReq(t, "sub-1", "messages", "inbox.1"))
	svc.HandleUnsubscribe(context.Background(), mustMarshal(t, docsync.UnsubscribeRequest{ID: "sub-1"}))
	before := len(pub.msgs)

	svc.HandleCreateMessage(context.Background(),
		mustMarshal(t, docsync.CreateRequest{Doc: json.RawMessage(`{"chatId":"c1"}`)}))

	assert.Len(t, pub.msgs, before, "no pushes after unsubscribe")
}

func TestHandleUnsubscribe_UnknownIDIsNoop(t *testing.T) {
	store := &fakeStore{docs: map[string][]json.RawMessage{}}
	svc, _ := newTestService(store)

	svc.HandleUnsubscribe(context.Background(), mustMarshal(t, docsync.UnsubscribeRequest{ID: "ghost"}))
}

func TestRepublish_FailingSubscriptionGetsErrorSnapshotAndIsDropped(t *testing.T) {
	store := &fakeStore{docs: map[string][]json.RawMessage{}}
	svc, pub := newTestService(store)

	svc.HandleSubscribe(context.Background(), subscribeReq(t, "sub-1", "messages", "inbox.1"))

	store.queryErr = errors.New("db gone")
	svc.republish(context.Background(), "messages")

	snaps := pub.snapshots(t, "inbox.1")
	require.Len(t, snaps, 2)
	assert.Contains(t, snaps[1].Error, "db gone")

	// Dropped: further writes do not reach it.
	store.queryErr = nil
	before := len(pub.msgs)
	svc.republish(context.Background(), "messages")
	assert.Len(t, pub.msgs, before)
}

func TestHandleUpdateMessage_AppliesPatch(t *testing.T) {
	store := &fakeStore{docs: map[string][]json.RawMessage{}}
	svc, _ := newTestService(store)

	resp := svc.HandleUpdateMessage(context.Background(),
		mustMarshal(t, docsync.UpdateRequest{ID: "m1", Fields: json.RawMessage(`{"read":true}`)}))

	var a docsync.Ack
	require.NoError(t, json.Unmarshal(resp, &a))
	assert.True(t, a.OK)
	assert.Equal(t, []string{"message:m1"}, store.updates)
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
