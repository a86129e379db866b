package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	httpapi "github.com/yourorg/listings-gateway/http"
	"github.com/yourorg/listings-gateway/internal/logger"
)

func BuildRouter(deps httpapi.Deps, ratePerMin int) http.Handler {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	log := deps.Log
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logger.Middleware(log))
	r.Use(httpapi.Recoverer(log))
	if ratePerMin > 0 {
		// protect upstream quota
		r.Use(httprate.Limit(ratePerMin, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, req *http.Request) {
				render.Status(req, http.StatusTooManyRequests)
				render.JSON(w, req, map[string]any{"error": "rate_limited"})
			}),
		))
	}
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]any{"ok": true})
	})

	httpapi.RegisterListings(r, deps)
	httpapi.RegisterCategories(r, deps)
	httpapi.RegisterStatus(r, deps)
	httpapi.RegisterRelay(r, deps)

	return r
}
