package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/yourorg/listings-gateway/internal/credentials"
	"github.com/yourorg/listings-gateway/upstream"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// upstreamCode maps an upstream status to the code returned to the caller.
func upstreamCode(se *upstream.StatusError) int {
	if se.StatusCode < 400 || se.StatusCode > 599 {
		return http.StatusBadGateway
	}
	return se.StatusCode
}

// details returns the upstream body as JSON when it is JSON, else as text.
func details(body []byte) any {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	return string(body)
}

// writeFault renders a failure from the direct provider path.
func writeFault(w http.ResponseWriter, r *http.Request, err error) {
	var cf *credentials.ConfigurationFault
	var se *upstream.StatusError
	switch {
	case errors.As(err, &cf):
		writeJSON(w, r, http.StatusInternalServerError, map[string]any{
			"error":   "configuration_fault",
			"detail":  err.Error(),
			"missing": cf.Missing,
		})
	case errors.As(err, &se):
		code := upstreamCode(se)
		writeJSON(w, r, code, map[string]any{
			"error":   "upstream_error",
			"status":  se.StatusCode,
			"details": details(se.Body),
		})
	case errors.Is(err, upstream.ErrUnreachable):
		writeJSON(w, r, http.StatusInternalServerError, map[string]any{
			"error":  "upstream_unreachable",
			"detail": err.Error(),
		})
	default:
		writeJSON(w, r, http.StatusInternalServerError, map[string]any{
			"error":  "internal_error",
			"detail": err.Error(),
		})
	}
}

// writeRelayFault renders a failure from the relay path.
func writeRelayFault(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusBadGateway
	body := map[string]any{"error": "relay_error", "details": err.Error()}
	var cf *credentials.ConfigurationFault
	var se *upstream.StatusError
	switch {
	case errors.As(err, &cf):
		code = http.StatusInternalServerError
		body["missing"] = cf.Missing
	case errors.As(err, &se):
		code = upstreamCode(se)
		body["details"] = details(se.Body)
	}
	body["status"] = code
	if se != nil {
		body["status"] = se.StatusCode
	}
	writeJSON(w, r, code, body)
}

// Recoverer turns a handler panic into a JSON 500.
func Recoverer(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				log.Error("handler panic",
					zap.Any("panic", rvr),
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("path", r.URL.Path),
					zap.Stack("stack"),
				)
				writeJSON(w, r, http.StatusInternalServerError, map[string]any{"error": "internal_error"})
			}()
			next.ServeHTTP(w, r)
		})
	}
}
