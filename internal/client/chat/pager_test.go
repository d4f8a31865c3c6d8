package chat

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/dmitrijs2005/snapline/internal/docsync"
	"github.com/dmitrijs2005/snapline/internal/models"
	"github.com/stretchr/testify/require"
)

func limits(c *fakeConn) []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int, 0, len(c.subscribeReqs))
	for _, r := range c.subscribeReqs {
		out = append(out, r.Query.Limit)
	}
	return out
}

func TestPager_LoadMoreGrowsLimitMonotonically(t *testing.T) {
	conn := newFakeConn()
	pager := NewPager(NewRepository(conn))
	defer pager.Stop()
	ctx := context.Background()

	require.NoError(t, pager.LoadMessages(ctx, "c1"))
	require.Equal(t, InitialLimit, pager.Limit())

	require.NoError(t, pager.LoadMore(ctx))
	require.Equal(t, 40, pager.Limit())

	require.NoError(t, pager.LoadMore(ctx))
	require.Equal(t, 60, pager.Limit())

	// One new subscription per call, with the widened window each time.
	require.Equal(t, []int{20, 40, 60}, limits(conn))
}

func TestPager_ResubscribeReplacesPriorSubscription(t *testing.T) {
	conn := newFakeConn()
	pager := NewPager(NewRepository(conn))
	defer pager.Stop()
	ctx := context.Background()

	require.NoError(t, pager.LoadMessages(ctx, "c1"))
	firstInbox := conn.subscribeReqs[0].Inbox

	require.NoError(t, pager.LoadMore(ctx))

	conn.mu.Lock()
	defer conn.mu.Unlock()
	require.Equal(t, 1, conn.unsubs[firstInbox], "prior subscription must be torn down, not merged with")
	require.Len(t, conn.subscribeReqs, 2)
}

func TestPager_LoadMessagesIdempotentForActiveChat(t *testing.T) {
	conn := newFakeConn()
	pager := NewPager(NewRepository(conn))
	defer pager.Stop()
	ctx := context.Background()

	require.NoError(t, pager.LoadMessages(ctx, "c1"))
	require.NoError(t, pager.LoadMessages(ctx, "c1"))

	require.Equal(t, []int{20}, limits(conn))
}

func TestPager_SwitchingChatResetsLimit(t *testing.T) {
	conn := newFakeConn()
	pager := NewPager(NewRepository(conn))
	defer pager.Stop()
	ctx := context.Background()

	require.NoError(t, pager.LoadMessages(ctx, "c1"))
	require.NoError(t, pager.LoadMore(ctx))
	require.Equal(t, 40, pager.Limit())

	require.NoError(t, pager.LoadMessages(ctx, "c2"))
	require.Equal(t, InitialLimit, pager.Limit())

	conn.mu.Lock()
	firstInbox := conn.subscribeReqs[0].Inbox
	secondInbox := conn.subscribeReqs[1].Inbox
	conn.mu.Unlock()
	require.Equal(t, 1, conn.unsubs[firstInbox])
	require.Equal(t, 1, conn.unsubs[secondInbox])
}

func TestPager_LoadMoreWithoutActiveChat(t *testing.T) {
	pager := NewPager(NewRepository(newFakeConn()))
	defer pager.Stop()

	require.Error(t, pager.LoadMore(context.Background()))
}

func TestPager_RepublishesSnapshots(t *testing.T) {
	conn := newFakeConn()
	pager := NewPager(NewRepository(conn))
	defer pager.Stop()
	ctx := context.Background()

	require.NoError(t, pager.LoadMessages(ctx, "c1"))

	conn.mu.Lock()
	inbox := conn.subscribeReqs[0].Inbox
	handler := conn.handlers[inbox]
	conn.mu.Unlock()

	msg, _ := json.Marshal(models.Message{ID: "m1", ChatID: "c1", Text: "hey"})
	snap, _ := json.Marshal(docsync.Snapshot{Docs: []json.RawMessage{msg}})
	handler(snap)

	select {
	case docs := <-pager.Updates():
		require.Len(t, docs, 1)
		require.Equal(t, "m1", docs[0].ID)
	case <-time.After(time.Second):
		t.Fatal("expected republished snapshot")
	}
	require.NoError(t, pager.Err())
}

func TestPager_CapturesSubscriptionError(t *testing.T) {
	conn := newFakeConn()
	pager := NewPager(NewRepository(conn))
	defer pager.Stop()
	ctx := context.Background()

	require.NoError(t, pager.LoadMessages(ctx, "c1"))

	conn.mu.Lock()
	inbox := conn.subscribeReqs[0].Inbox
	handler := conn.handlers[inbox]
	conn.mu.Unlock()

	snap, _ := json.Marshal(docsync.Snapshot{Error: "listener failed"})
	handler(snap)

	require.Eventually(t, func() bool {
		return pager.Err() != nil
	}, time.Second, 10*time.Millisecond, "error must land in the observable slot")

	// No automatic retry: recovery is an explicit reload.
	require.Equal(t, []int{20}, limits(conn))
	require.NoError(t, pager.LoadMessages(ctx, "c1"))
	require.Equal(t, []int{20, 20}, limits(conn))
	require.NoError(t, pager.Err())
}
