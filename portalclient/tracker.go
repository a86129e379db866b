package portalclient

import (
	"context"
	"sync"

	"github.com/yourorg/listings-gateway/listing"
	"github.com/yourorg/listings-gateway/upstream"
)

type State int

const (
	Idle State = iota
	Fetching
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Fetching:
		return "fetching"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Snapshot is the caller-visible result of the latest applied fetch.
type Snapshot struct {
	State    State
	Ticket   uint64
	Sequence int64
	Page     listing.Page
	Fallback bool
	Err      error
}

// Tracker applies search results in issue order. Each Begin supersedes the
// previous fetch: its context is cancelled and its result is discarded.
type Tracker struct {
	mu      sync.Mutex
	latest  uint64
	cancel  context.CancelFunc
	applied int64
	snap    Snapshot
}

func NewTracker() *Tracker { return &Tracker{} }

// Begin issues a new ticket and returns the context the fetch must run under.
func (t *Tracker) Begin(parent context.Context) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(parent)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
	}
	t.latest++
	t.cancel = cancel
	t.snap.State = Fetching
	t.snap.Ticket = t.latest
	return ctx, t.latest
}

// Resolve applies a result if ticket is still the latest one issued and the
// gateway sequence has not gone backwards. It reports whether it applied.
func (t *Tracker) Resolve(ticket uint64, res Result, err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if ticket != t.latest {
		return false
	}
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	if err != nil {
		t.snap = Snapshot{State: Failed, Ticket: ticket, Sequence: t.snap.Sequence, Page: t.snap.Page, Err: err}
		return true
	}
	if res.Sequence > 0 && res.Sequence < t.applied {
		t.snap.State = Success
		return false
	}
	if res.Sequence > 0 {
		t.applied = res.Sequence
	}
	t.snap = Snapshot{State: Success, Ticket: ticket, Sequence: res.Sequence, Page: res.Page, Fallback: res.Fallback}
	return true
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snap
}

// Visible returns the current listings narrowed by a free-text query.
func (t *Tracker) Visible(query string) []listing.Listing {
	return listing.Filter(t.Snapshot().Page, query)
}

// Refresh runs one search under t. Superseded calls return applied=false.
func (c *Client) Refresh(ctx context.Context, t *Tracker, f upstream.ListingFilter) (bool, error) {
	fetchCtx, ticket := t.Begin(ctx)
	res, err := c.Search(fetchCtx, f)
	return t.Resolve(ticket, res, err), err
}
