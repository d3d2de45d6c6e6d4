package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter assembles the HTTP surface: CRUD for sources, products and
// labels, scrape history, batch execution, the SSE stream and the
// metrics endpoint.
func NewRouter(h *Handlers, registry *prometheus.Registry) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://localhost:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/api/health", h.Health)
	r.Get("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}).ServeHTTP)

	// The SSE stream must not sit behind the request timeout.
	r.Get("/api/events", h.Events)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Route("/api/sources", func(r chi.Router) {
			r.Get("/", h.ListSources)
			r.Post("/", h.CreateSource)
			r.Put("/{id}", h.UpdateSource)
			r.Delete("/{id}", h.DeleteSource)
		})

		r.Route("/api/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.CreateProduct)
			r.Put("/{id}", h.UpdateProduct)
			r.Delete("/{id}", h.DeleteProduct)
			r.Post("/{id}/labels/{labelID}", h.AttachLabel)
			r.Delete("/{id}/labels/{labelID}", h.DetachLabel)
		})

		r.Route("/api/labels", func(r chi.Router) {
			r.Get("/", h.ListLabels)
			r.Post("/", h.CreateLabel)
			r.Delete("/{id}", h.DeleteLabel)
		})

		r.Route("/api/data", func(r chi.Router) {
			r.Get("/", h.ListData)
			r.Delete("/", h.DeleteDataByName)
			r.Delete("/{id}", h.DeleteData)
		})
		r.Post("/api/execute", h.Execute)
	})

	return r
}
