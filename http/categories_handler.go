package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yourorg/listings-gateway/internal/fallback"
	"github.com/yourorg/listings-gateway/listing"
)

var errNoCategories = errors.New("upstream returned no categories")

type CategoriesResponse struct {
	Categories []listing.Category `json:"categories"`
	Fallback   bool               `json:"fallback"`
}

func RegisterCategories(r chi.Router, d Deps) {
	r.Get("/categories", d.categories)
}

func (d Deps) categories(w http.ResponseWriter, req *http.Request) {
	var cats []listing.Category
	resp, err := d.direct(req.Context(), d.Endpoints.Categories, nil)
	if err == nil {
		if cats = listing.DecodeCategories(resp.Body); len(cats) == 0 {
			err = errNoCategories
		}
	}
	if err != nil {
		if !d.Policy.ShouldFallback(fallback.KindCategories) {
			writeFault(w, req, err)
			return
		}
		d.degraded(fallback.KindCategories, err)
		writeJSON(w, req, http.StatusOK, CategoriesResponse{Categories: fallback.Categories(), Fallback: true})
		return
	}
	writeJSON(w, req, http.StatusOK, CategoriesResponse{Categories: cats})
}
