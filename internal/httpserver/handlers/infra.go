package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/chronos/internal/httpserver/deps"
)

const redisPingTimeout = 2 * time.Second

type componentStatus struct {
	OK         bool   `json:"ok"`
	Count      *int   `json:"count,omitempty"`
	LastChange string `json:"last_change,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Impact     string `json:"impact,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resourceCount := d.Resources.Count()
		lastChange := "never"
		if t := d.Resources.LastChange(); !t.IsZero() {
			lastChange = t.Format(time.RFC3339)
		}
		chatCount := d.Chats.Count()

		components := map[string]componentStatus{
			"resources": {
				OK:         true,
				Count:      &resourceCount,
				LastChange: lastChange,
			},
			"redis":  checkRedis(r.Context(), d),
			"gemini": checkGemini(d),
			"chats": {
				OK:    true,
				Count: &chatCount,
			},
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Status:     overallStatus(components),
			Components: components,
		})
	}
}

// overallStatus is "ok" when every component is healthy, "degraded" otherwise.
// No component failure stops the resource panel from working.
func overallStatus(components map[string]componentStatus) string {
	for _, c := range components {
		if !c.OK {
			return "degraded"
		}
	}
	return "ok"
}

func checkGemini(d deps.Deps) componentStatus {
	if !d.GeminiConfigured {
		return componentStatus{
			OK:     false,
			Mode:   "fallback",
			Impact: "ai-features-return-fallbacks",
			Error:  "no api key",
		}
	}
	cfg := d.Insights.Config()
	return componentStatus{
		OK:   true,
		Mode: cfg.InsightModel + "," + cfg.TopicModel + "," + cfg.ChatModel,
	}
}

func checkRedis(parent context.Context, d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     true,
			Mode:   "disabled",
			Impact: "resources-not-persisted",
		}
	}

	ctx, cancel := context.WithTimeout(parent, redisPingTimeout)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "resources-not-persisted",
			Error:  err.Error(),
		}
	}

	return componentStatus{
		OK:   true,
		Mode: "mirroring",
	}
}
