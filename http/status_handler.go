package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yourorg/listings-gateway/internal/credentials"
	"github.com/yourorg/listings-gateway/internal/fallback"
	"github.com/yourorg/listings-gateway/upstream"
)

func RegisterStatus(r chi.Router, d Deps) {
	r.Get("/status", d.status)
}

// status always answers 200; connectivity is reported in the body.
func (d Deps) status(w http.ResponseWriter, req *http.Request) {
	resp, err := d.direct(req.Context(), d.Endpoints.Status, nil)
	if err == nil {
		var body any
		if json.Unmarshal(resp.Body, &body) != nil {
			body = string(resp.Body)
		}
		writeJSON(w, req, http.StatusOK, fallback.StatusReport{
			Connected:  true,
			StatusCode: resp.StatusCode,
			Upstream:   body,
		})
		return
	}

	rep := fallback.Status(statusReason(err))
	rep.Detail = err.Error()
	rep.Fallback = d.Policy.ShouldFallback(fallback.KindStatus)
	var se *upstream.StatusError
	if errors.As(err, &se) {
		rep.StatusCode = se.StatusCode
	}
	if rep.Fallback {
		d.degraded(fallback.KindStatus, err)
	}
	writeJSON(w, req, http.StatusOK, rep)
}

func statusReason(err error) string {
	switch {
	case errors.Is(err, credentials.ErrConfiguration):
		return "configuration_fault"
	case errors.Is(err, upstream.ErrUnreachable):
		return "upstream_unreachable"
	default:
		return "upstream_error"
	}
}
