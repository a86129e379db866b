package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yourorg/listings-gateway/internal/fallback"
	"github.com/yourorg/listings-gateway/listing"
	"github.com/yourorg/listings-gateway/upstream"
)

// SequenceHeader carries the fetch sequence number of a search response.
const SequenceHeader = "X-Fetch-Sequence"

type SearchResponse struct {
	listing.Page
	Sequence int64 `json:"sequence"`
	Fallback bool  `json:"fallback,omitempty"`
}

func RegisterListings(r chi.Router, d Deps) {
	r.Get("/listings/sale", d.searchListings)
	r.Get("/listings/{listingID}", d.listingDetail)
}

func (d Deps) searchListings(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	// Issued before dispatch so numbers follow request order, not completion order.
	sequence := d.nextSequence(ctx)
	w.Header().Set(SequenceHeader, strconv.FormatInt(sequence, 10))

	query := upstream.Translate(upstream.ParseFilter(req.URL.Query()))
	resp, err := d.direct(ctx, d.Endpoints.Search, query)
	if err != nil {
		if !d.Policy.ShouldFallback(fallback.KindSearch) {
			writeFault(w, req, err)
			return
		}
		d.degraded(fallback.KindSearch, err)
		writeJSON(w, req, http.StatusOK, SearchResponse{Page: fallback.Listings(), Sequence: sequence, Fallback: true})
		return
	}

	page := listing.Normalize(resp.Body).Paginate(upstream.PageSize(query))
	writeJSON(w, req, http.StatusOK, SearchResponse{Page: page, Sequence: sequence})
}

func (d Deps) listingDetail(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "listingID")
	resp, err := d.direct(req.Context(), d.Endpoints.DetailPath(id), nil)
	if err != nil {
		if !d.Policy.ShouldFallback(fallback.KindDetail) {
			writeFault(w, req, err)
			return
		}
		d.degraded(fallback.KindDetail, err)
		if l, ok := fallback.ListingByID(id); ok {
			writeJSON(w, req, http.StatusOK, l)
			return
		}
		writeJSON(w, req, http.StatusNotFound, map[string]any{"error": "not_found", "id": id})
		return
	}

	l, ok := listing.NormalizeOne(resp.Body)
	if !ok {
		writeJSON(w, req, http.StatusNotFound, map[string]any{"error": "not_found", "id": id})
		return
	}
	writeJSON(w, req, http.StatusOK, l)
}
