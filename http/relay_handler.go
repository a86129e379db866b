package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yourorg/listings-gateway/internal/credentials"
	"github.com/yourorg/listings-gateway/listing"
	"github.com/yourorg/listings-gateway/upstream"
)

const maxRelayRequestBody = 1 << 20

var errRelayNotJSON = errors.New("relay returned a non-JSON body")

func RegisterRelay(r chi.Router, d Deps) {
	r.HandleFunc("/relay", d.relay(false))
	r.HandleFunc("/relay-raw", d.relay(true))
}

// relay forwards to the relay tier. raw skips shape reconciliation and
// returns the body with its upstream content type.
func (d Deps) relay(raw bool) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		path, err := upstream.CleanRelayPath(q.Get("path"))
		if err != nil {
			writeJSON(w, req, http.StatusBadRequest, map[string]any{"error": "invalid_path", "detail": err.Error()})
			return
		}
		q.Del("path")

		base, err := credentials.RelayBase(d.Credentials)
		if err != nil {
			writeRelayFault(w, req, err)
			return
		}
		body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxRelayRequestBody))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeJSON(w, req, http.StatusRequestEntityTooLarge, map[string]any{
					"error":   "relay_error",
					"status":  http.StatusRequestEntityTooLarge,
					"details": fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
				})
				return
			}
			writeJSON(w, req, http.StatusBadRequest, map[string]any{"error": "invalid_body", "detail": err.Error()})
			return
		}

		resp, err := d.Upstream.Relay(req.Context(), upstream.RelayRequest{
			BaseURL: base,
			Path:    path,
			Method:  req.Method,
			Query:   q,
			Header:  req.Header,
			Body:    body,
		})
		if err != nil {
			writeRelayFault(w, req, err)
			return
		}

		if raw {
			if ct := resp.ContentType(); ct != "" {
				w.Header().Set("Content-Type", ct)
			} else {
				w.Header().Set("Content-Type", "application/octet-stream")
			}
			w.WriteHeader(resp.StatusCode)
			_, _ = w.Write(resp.Body)
			return
		}

		if !json.Valid(resp.Body) {
			writeRelayFault(w, req, errRelayNotJSON)
			return
		}
		page := listing.Normalize(resp.Body)
		if page.Shape == listing.ShapeUnrecognized {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(resp.Body)
			return
		}
		writeJSON(w, req, http.StatusOK, page.Paginate(upstream.PageSize(q)))
	}
}
