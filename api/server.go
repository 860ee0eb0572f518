/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack and route definitions. This
  is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the dashboard frontend

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/balance", func(r chi.Router) {
			r.Get("/", h.GetBalance)
			r.Get("/current", h.GetCurrentBalance)
		})

		r.Get("/stats/{timeframe}", h.GetStats)
		r.Get("/averages", h.GetAverages)
		r.Get("/validation", h.GetValidation)
		r.Get("/goal/{date}", h.GetGoal)
		r.Get("/days/{date}", h.GetDay)
		r.Get("/groups", h.GetGroups)

		r.Route("/entries", func(r chi.Router) {
			r.Get("/", h.ListEntries)
			r.Post("/", h.CreateEntry)
			r.Delete("/{id}", h.DeleteEntry)
		})

		r.Route("/timer", func(r chi.Router) {
			r.Post("/start", h.StartTimer)
			r.Post("/stop", h.StopTimer)
		})

		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.GetHolidays)
			r.Put("/", h.UpdateHolidays)
		})
	})

	return r
}
