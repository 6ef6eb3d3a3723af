package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/chronos/internal/httpserver/deps"
	"github.com/MrSnakeDoc/chronos/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/chronos/internal/httpserver/mw"
)

func init() { Register(registerResources) }

func registerResources(r chi.Router, d deps.Deps) {
	r.Route("/api/resources", func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout(d)))

			r.Get("/", handlers.ListResources(d))
			r.Post("/", handlers.AddResource(d))
			r.Delete("/{id}", handlers.DeleteResource(d))
		})

		// Probes wait on a remote host, so they get the probe budget on top.
		r.With(middleware.Timeout(requestTimeout(d)+d.ProbeTimeout)).Get("/{id}/probe", handlers.ProbeResource(d))
	})
}
