package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/chronos/internal/domain"
	"github.com/MrSnakeDoc/chronos/internal/httpserver/deps"
	"github.com/MrSnakeDoc/chronos/internal/logger"
)

// EmptyResourcesMessage is shown when the collection has no entries at all.
const EmptyResourcesMessage = "No resources added yet."

type resourceListResponse struct {
	Resources    []domain.Resource `json:"resources"`
	Count        int               `json:"count"`
	Empty        bool              `json:"empty"`
	EmptyMessage string            `json:"empty_message,omitempty"`
}

type addResourceRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// ListResources returns the collection in insertion order, filtered by ?q= when present.
func ListResources(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all := d.Resources.All()
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		matches := domain.FilterResources(query, all)
		if matches == nil {
			matches = []domain.Resource{}
		}

		resp := resourceListResponse{
			Resources: matches,
			Count:     len(matches),
			Empty:     len(all) == 0,
		}
		if resp.Empty {
			resp.EmptyMessage = EmptyResourcesMessage
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// AddResource normalizes the submitted url and title and appends the result.
func AddResource(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addResourceRequest
		if !decodeJSON(w, r, d, &req) {
			return
		}

		res, ok := d.Panel.Add(req.URL, req.Title)
		if !ok {
			writeError(w, http.StatusBadRequest, "url is required")
			return
		}

		writeJSON(w, http.StatusCreated, res)
	}
}

// DeleteResource removes a resource by id. Unknown ids are not an error.
func DeleteResource(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Panel.Remove(chi.URLParam(r, "id"))
		w.WriteHeader(http.StatusNoContent)
	}
}

// ProbeResource checks whether a stored link still answers.
func ProbeResource(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		res, ok := d.Resources.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "resource not found")
			return
		}

		result, err := domain.ProbeURL(r.Context(), res.URL, domain.ProbeOptions{
			Timeout:      d.ProbeTimeout,
			AllowPrivate: d.ProbePrivate,
		})
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrEmptyURL):
				writeError(w, http.StatusUnprocessableEntity, err.Error())
				return
			case errors.Is(err, domain.ErrBlockedTarget):
				d.Logger.Warn("refused to check internal address",
					logger.String("id", id),
					logger.String("url", res.URL))
				writeError(w, http.StatusForbidden, domain.ErrBlockedTarget.Error())
				return
			}
			d.Logger.Debug("resource probe failed",
				logger.String("id", id),
				logger.String("url", res.URL),
				logger.Error(err))
		}

		writeJSON(w, http.StatusOK, result)
	}
}
