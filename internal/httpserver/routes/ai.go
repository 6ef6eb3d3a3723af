package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/chronos/internal/httpserver/deps"
	"github.com/MrSnakeDoc/chronos/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/chronos/internal/httpserver/mw"
)

const (
	defaultRequestTimeout = 5 * time.Second
	defaultAITimeout      = 2 * time.Minute
)

func init() { Register(registerAI) }

// registerAI mounts every route that calls the model. They share one
// per-client limiter and the long AI timeout.
func registerAI(r chi.Router, d deps.Deps) {
	limiter := mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.AIRateBurst,
		RefillPerIPPerMin: d.AIRatePerMin,
		MaxEntries:        10000,
		TrustProxy:        d.TrustProxy,
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))

		r.Group(func(r chi.Router) {
			r.Use(limiter)
			r.Use(middleware.Timeout(aiTimeout(d)))

			r.Post("/api/insights", handlers.Insights(d))
			r.Post("/api/topics", handlers.Topics(d))
			r.Post("/api/chat/sessions", handlers.CreateChat(d))
			r.Post("/api/chat/sessions/{id}/messages", handlers.SendChatMessage(d))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout(d)))

			r.Get("/api/chat/sessions/{id}", handlers.GetChat(d))
			r.Delete("/api/chat/sessions/{id}", handlers.DeleteChat(d))
		})
	})
}

func requestTimeout(d deps.Deps) time.Duration {
	if d.RequestTimeout > 0 {
		return d.RequestTimeout
	}
	return defaultRequestTimeout
}

func aiTimeout(d deps.Deps) time.Duration {
	if d.AITimeout > 0 {
		return d.AITimeout
	}
	return defaultAITimeout
}
