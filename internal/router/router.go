// Package router sets up all HTTP routes and middleware chains for the
// menupress API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"menupress/internal/handlers"
	"menupress/internal/middleware"
)

// New creates and returns the configured Chi router. metrics may be nil,
// in which case /metrics is not mounted. limiter guards the endpoints that
// compile or remove sites.
func New(websites *handlers.Websites, metrics http.Handler, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Operational endpoints, no identity required.
	r.Get("/health", healthHandler)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Route("/api/websites/{id}", func(r chi.Router) {
		r.Use(middleware.RequireRestaurant)

		r.Get("/status", websites.Status)
		r.Get("/deployments", websites.Deployments)
		r.Post("/changes", websites.MarkChanged)
		r.Patch("/content", websites.UpdateContent)

		// Site builds and removals are expensive.
		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(limiter.Middleware)
			}
			r.Post("/publish", websites.Publish)
			r.Post("/unpublish", websites.Unpublish)
			r.Post("/rollback", websites.Rollback)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
