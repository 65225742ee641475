package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tunesync/server/internal/service/search"
	"github.com/tunesync/server/pkg/ytoembed"
)

func (c *controller) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		c.logger.Info("failed to encode response", "error", err)
	}
}

func (c *controller) writeError(w http.ResponseWriter, status int, message string) {
	c.writeJSON(w, status, map[string]string{"error": message})
}

func (c *controller) handleStatus(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, http.StatusOK, map[string]any{
		"message":   "TuneSync Server Running",
		"rooms":     c.roomService.RoomCount(r.Context()),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (c *controller) handleSearchSongs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		c.writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	tracks, err := c.searchService.SearchSongs(r.Context(), query)
	if err != nil {
		c.logger.ErrorContext(r.Context(), "song search failed", "query", query, "error", err)
		c.writeError(w, http.StatusBadGateway, "search failed")
		return
	}

	c.writeJSON(w, http.StatusOK, map[string]any{"results": tracks})
}

func (c *controller) handleSearchVideos(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		c.writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	videos, err := c.searchService.SearchVideos(r.Context(), query)
	if err != nil {
		if errors.Is(err, search.ErrVideoSearchUnavailable) {
			c.writeError(w, http.StatusServiceUnavailable, "video search is not configured")
			return
		}
		c.logger.ErrorContext(r.Context(), "video search failed", "query", query, "error", err)
		c.writeError(w, http.StatusBadGateway, "search failed")
		return
	}

	c.writeJSON(w, http.StatusOK, map[string]any{"results": videos})
}

func (c *controller) handleVideoLookup(w http.ResponseWriter, r *http.Request) {
	videoId := chi.URLParam(r, "videoId")

	video, err := c.searchService.LookupVideo(r.Context(), videoId)
	if err != nil {
		if errors.Is(err, ytoembed.ErrVideoNotFound) {
			c.writeError(w, http.StatusNotFound, "video not found")
			return
		}
		c.logger.ErrorContext(r.Context(), "video lookup failed", "video_id", videoId, "error", err)
		c.writeError(w, http.StatusBadGateway, "lookup failed")
		return
	}

	c.writeJSON(w, http.StatusOK, video)
}
