package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"whisp/web"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	router.Route("/api/whisps", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/{id}", h.retrieve)
		r.Get("/{id}/file", h.downloadFile)
	})

	router.Get("/healthz", h.healthz)

	router.Get("/", h.index)
	router.Handle("/static/*", staticHandler())

	return router
}

func staticHandler() http.Handler {
	return http.StripPrefix("/static/", http.FileServer(web.StaticFS()))
}
