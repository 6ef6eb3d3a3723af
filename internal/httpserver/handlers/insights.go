package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/chronos/internal/domain"
	"github.com/MrSnakeDoc/chronos/internal/httpserver/deps"
)

type insightsRequest struct {
	Logs         []domain.SessionLog `json:"logs"`
	CurrentTopic string              `json:"current_topic"`
}

type insightsResponse struct {
	Insights string `json:"insights"`
}

type topicsRequest struct {
	Interest string `json:"interest"`
}

type topicsResponse struct {
	Topics []string `json:"topics"`
}

// Insights answers 200 even when the model fails: the body then carries the
// user-facing fallback message.
func Insights(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req insightsRequest
		if !decodeJSON(w, r, d, &req) {
			return
		}

		text := d.Insights.GenerateProductivityInsights(r.Context(), req.Logs, req.CurrentTopic)
		writeJSON(w, http.StatusOK, insightsResponse{Insights: text})
	}
}

// Topics answers 200 with an empty list when suggestions are unavailable.
func Topics(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req topicsRequest
		if !decodeJSON(w, r, d, &req) {
			return
		}

		topics := d.Insights.GenerateTopicSuggestions(r.Context(), req.Interest)
		writeJSON(w, http.StatusOK, topicsResponse{Topics: topics})
	}
}
