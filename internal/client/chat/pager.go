package chat

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/snapline/internal/client/livesync"
	"github.com/dmitrijs2005/snapline/internal/models"
)

// Pagination window: the first page and the growth step of "load more".
const (
	InitialLimit = 20
	LimitStep    = 20
)

// Pager tracks a per-chat, monotonically non-decreasing fetch limit and keeps
// exactly one live message subscription open for the active chat. Because the
// document-sync service emits full snapshots, growing the limit simply
// replaces the subscription with a wider one. No merge logic, at the cost of
// re-fetching the whole window.
//
// Subscription errors land in an observable error slot (Err); nothing is
// retried automatically. The consumer re-triggers a load to recover.
type Pager struct {
	repo *Repository
	out  chan []models.Message

	mu      sync.Mutex
	chatID  string
	limit   int
	current *livesync.Subscription[models.Message]
	err     error

	closeOnce sync.Once
}

func NewPager(repo *Repository) *Pager {
	return &Pager{repo: repo, out: make(chan []models.Message, 1)}
}

// LoadMessages activates chatID. It is a no-op when that chat is already
// active; switching to a different chat resets the limit to the first page
// and replaces the previous subscription.
func (p *Pager) LoadMessages(ctx context.Context, chatID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.chatID == chatID && p.current != nil {
		return nil
	}

	p.chatID = chatID
	p.limit = InitialLimit
	return p.resubscribe(ctx)
}

// LoadMore widens the window by one step and resubscribes. The grown snapshot
// transparently extends the visible history.
func (p *Pager) LoadMore(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.chatID == "" {
		return errors.New("no active chat")
	}

	p.limit += LimitStep
	return p.resubscribe(ctx)
}

// resubscribe replaces the current subscription with one using the tracked
// chat id and limit. Caller holds p.mu.
func (p *Pager) resubscribe(ctx context.Context) error {
	if p.current != nil {
		p.current.Stop()
		p.current = nil
	}

	sub, err := p.repo.ObserveMessages(ctx, p.chatID, p.limit)
	if err != nil {
		p.err = err
		return err
	}

	p.err = nil
	p.current = sub
	go p.pump(sub)
	return nil
}

// pump republishes one subscription's snapshots until it ends or is replaced.
func (p *Pager) pump(sub *livesync.Subscription[models.Message]) {
	for docs := range sub.Updates() {
		p.mu.Lock()
		if p.current != sub {
			// Replaced; a buffered stale snapshot must not overwrite the
			// successor's output.
			p.mu.Unlock()
			return
		}
		select {
		case <-p.out:
		default:
		}
		p.out <- docs
		p.mu.Unlock()
	}

	if err := sub.Err(); err != nil {
		p.mu.Lock()
		if p.current == sub {
			p.err = err
			p.current = nil
		}
		p.mu.Unlock()
	}
}

// Updates yields the full visible message window, newest first, one emission
// per server push. The channel stays open across resubscriptions.
func (p *Pager) Updates() <-chan []models.Message {
	return p.out
}

// Err reports the error that terminated the current subscription, nil while
// one is healthy.
func (p *Pager) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Limit reports the currently tracked fetch limit.
func (p *Pager) Limit() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.limit
}

// Stop cancels the active subscription and closes Updates.
func (p *Pager) Stop() {
	p.mu.Lock()
	if p.current != nil {
		p.current.Stop()
		p.current = nil
	}
	p.chatID = ""
	p.mu.Unlock()

	p.closeOnce.Do(func() { close(p.out) })
}
