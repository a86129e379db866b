package portalclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/yourorg/listings-gateway/listing"
	"github.com/yourorg/listings-gateway/upstream"
)

func TestMain(m *testing.M) { goleak.VerifyTestMain(m) }

func pageOf(ids ...string) listing.Page {
	ls := make([]listing.Listing, 0, len(ids))
	for _, id := range ids {
		ls = append(ls, listing.Listing{ID: id})
	}
	return listing.Page{Properties: ls, TotalItems: len(ls)}
}

func TestTrackerDiscardsSuperseded(t *testing.T) {
	tr := NewTracker()
	assert.Equal(t, Idle, tr.Snapshot().State)

	ctx1, t1 := tr.Begin(context.Background())
	_, t2 := tr.Begin(context.Background())
	assert.ErrorIs(t, ctx1.Err(), context.Canceled)
	assert.Equal(t, Fetching, tr.Snapshot().State)

	assert.True(t, tr.Resolve(t2, Result{Page: pageOf("new"), Sequence: 8}, nil))
	assert.False(t, tr.Resolve(t1, Result{Page: pageOf("old"), Sequence: 7}, nil))

	snap := tr.Snapshot()
	assert.Equal(t, Success, snap.State)
	assert.Equal(t, t2, snap.Ticket)
	assert.Equal(t, int64(8), snap.Sequence)
	assert.Equal(t, "new", snap.Page.Properties[0].ID)
}

func TestTrackerFailureKeepsLastPage(t *testing.T) {
	tr := NewTracker()
	_, t1 := tr.Begin(context.Background())
	tr.Resolve(t1, Result{Page: pageOf("a"), Sequence: 1}, nil)

	_, t2 := tr.Begin(context.Background())
	boom := errors.New("boom")
	assert.True(t, tr.Resolve(t2, Result{}, boom))

	snap := tr.Snapshot()
	assert.Equal(t, Failed, snap.State)
	assert.ErrorIs(t, snap.Err, boom)
	assert.Equal(t, []string{"a"}, []string{snap.Page.Properties[0].ID})
}

func TestTrackerRejectsOlderSequence(t *testing.T) {
	tr := NewTracker()
	_, t1 := tr.Begin(context.Background())
	tr.Resolve(t1, Result{Page: pageOf("a"), Sequence: 5}, nil)
	_, t2 := tr.Begin(context.Background())
	assert.False(t, tr.Resolve(t2, Result{Page: pageOf("b"), Sequence: 3}, nil))
	assert.Equal(t, "a", tr.Snapshot().Page.Properties[0].ID)
}

func TestTrackerVisible(t *testing.T) {
	tr := NewTracker()
	_, tk := tr.Begin(context.Background())
	page := listing.Normalize([]byte(`[{"id":"1","suburb":"Bondi"},{"id":"2","suburb":{"name":"Leura"}}]`))
	tr.Resolve(tk, Result{Page: page}, nil)

	got := tr.Visible("leura")
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
	assert.Len(t, tr.Visible(""), 2)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "fetching", Fetching.String())
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "failed", Failed.String())
}

func newTestClient(url string) *Client {
	return New(url, Options{HTTPClient: &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}})
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/listings/sale", r.URL.Path)
		assert.Equal(t, "Bondi", r.URL.Query().Get("suburb"))
		w.Header().Set("X-Fetch-Sequence", "4")
		_, _ = w.Write([]byte(`{"properties":[{"id":"x","priceLabel":"Auction","address":null,"suburb":"Bondi","propertyType":null,"images":[]}],"totalItems":1,"totalPages":1,"sequence":4}`))
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL).Search(context.Background(), upstream.ListingFilter{Suburb: "Bondi"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.Sequence)
	assert.Equal(t, 1, res.Page.TotalItems)
	want := []string{"x"}
	got := []string{res.Page.Properties[0].ID}
	assert.Empty(t, cmp.Diff(want, got))
	assert.Equal(t, "Auction", res.Page.Properties[0].PriceLabel)
}

func TestSearchAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"configuration_fault","detail":"configuration fault: missing LISTINGS_API_TOKEN","missing":["LISTINGS_API_TOKEN"]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Search(context.Background(), upstream.ListingFilter{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "configuration_fault", apiErr.Code)
	assert.Equal(t, []string{"LISTINGS_API_TOKEN"}, apiErr.Missing)
}

func TestRefreshCancelsSlowFetch(t *testing.T) {
	var calls atomic.Int64
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if n == 1 {
			select {
			case <-r.Context().Done():
			case <-release:
			}
			return
		}
		_, _ = w.Write([]byte(`{"properties":[{"id":"fresh"}],"totalItems":1,"totalPages":1,"sequence":` + strconv.FormatInt(n, 10) + `}`))
	}))
	defer srv.Close()
	defer close(release)

	c := newTestClient(srv.URL)
	tr := NewTracker()

	type outcome struct {
		applied bool
		err     error
	}
	slow := make(chan outcome, 1)
	go func() {
		applied, err := c.Refresh(context.Background(), tr, upstream.ListingFilter{})
		slow <- outcome{applied, err}
	}()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	applied, err := c.Refresh(context.Background(), tr, upstream.ListingFilter{})
	require.NoError(t, err)
	assert.True(t, applied)

	first := <-slow
	assert.False(t, first.applied)
	assert.ErrorIs(t, first.err, context.Canceled)

	snap := tr.Snapshot()
	assert.Equal(t, Success, snap.State)
	assert.Equal(t, "fresh", snap.Page.Properties[0].ID)
}
