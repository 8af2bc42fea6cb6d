// Package server assembles the HTTP router and server.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"notes-api/handlers"
	"notes-api/middleware"
	"notes-api/store"
	"notes-api/web"
)

type Deps struct {
	Store       store.Store
	Credentials handlers.Authenticator
	Verifier    middleware.Verifier
	CORSOrigins []string
	// Registry receives the HTTP metrics and is served at /metrics. A fresh
	// registry is used when nil.
	Registry *prometheus.Registry
}

func NewRouter(d Deps) http.Handler {
	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	metrics := middleware.NewMetrics(reg)

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(metrics.Handler)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))
	r.Use(middleware.SecurityHeaders(middleware.DefaultCSP))

	authHandler := handlers.NewAuth(d.Credentials)
	notesHandler := handlers.NewNotes(d.Store)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health(d.Store))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Use(middleware.RequireAuth(d.Verifier))
			r.Get("/", notesHandler.List)
			r.Post("/", notesHandler.Create)
			r.Get("/{id}", notesHandler.Get)
			r.Put("/{id}", notesHandler.Update)
			r.Delete("/{id}", notesHandler.Delete)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"msg":"Not found"}`))
		})
	})

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Handle("/*", web.Handler())

	return r
}
