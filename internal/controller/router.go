package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (c *controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)

	r.Get("/", c.handleStatus)

	r.Route("/api", func(api chi.Router) {
		api.Use(c.searchLimiter.middleware)
		api.Get("/search/songs", c.handleSearchSongs)
		api.Get("/search/videos", c.handleSearchVideos)
		api.Get("/videos/{videoId}", c.handleVideoLookup)
	})

	r.HandleFunc("/ws", c.handleWS)

	return r
}
