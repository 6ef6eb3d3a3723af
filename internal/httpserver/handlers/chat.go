package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/chronos/internal/httpserver/deps"
	"github.com/MrSnakeDoc/chronos/internal/index"
	"github.com/MrSnakeDoc/chronos/internal/insight"
	"github.com/MrSnakeDoc/chronos/internal/logger"
)

type chatSessionResponse struct {
	index.ChatInfo
	History []insight.Turn `json:"history,omitempty"`
}

type chatMessageRequest struct {
	Message string `json:"message"`
}

type chatMessageResponse struct {
	Reply string `json:"reply"`
}

// CreateChat opens a mentor chat. Backend failures surface as 502.
func CreateChat(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := d.Insights.CreateChatSession(r.Context())
		if err != nil {
			d.Logger.Error("failed to create chat session", logger.Error(err))
			writeError(w, http.StatusBadGateway, "chat is unavailable")
			return
		}

		id := d.Chats.Add(session)
		info, _ := d.Chats.Info(id)
		d.Logger.Info("chat session created",
			logger.String("chat_id", id),
			logger.Int("active", d.Chats.Count()))

		writeJSON(w, http.StatusCreated, chatSessionResponse{ChatInfo: info})
	}
}

// SendChatMessage forwards one user turn and returns the model reply.
func SendChatMessage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req chatMessageRequest
		if !decodeJSON(w, r, d, &req) {
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			writeError(w, http.StatusBadRequest, "message is required")
			return
		}

		reply, err := d.Chats.Send(r.Context(), id, req.Message)
		switch {
		case errors.Is(err, index.ErrChatNotFound):
			writeError(w, http.StatusNotFound, err.Error())
			return
		case err != nil:
			d.Logger.Error("chat message failed",
				logger.String("chat_id", id),
				logger.Error(err))
			writeError(w, http.StatusBadGateway, "chat reply failed")
			return
		}

		writeJSON(w, http.StatusOK, chatMessageResponse{Reply: reply})
	}
}

// GetChat returns the session metadata and its curated history.
func GetChat(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		info, ok := d.Chats.Info(id)
		if !ok {
			writeError(w, http.StatusNotFound, index.ErrChatNotFound.Error())
			return
		}
		history, err := d.Chats.History(id)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, chatSessionResponse{ChatInfo: info, History: history})
	}
}

// DeleteChat drops a session. Unknown ids are not an error.
func DeleteChat(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Chats.Delete(chi.URLParam(r, "id"))
		w.WriteHeader(http.StatusNoContent)
	}
}
