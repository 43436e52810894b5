package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Get("/api/health/", h.health)
		r.Get("/api/version/", h.getServerVersion)
	})

	// progress routes require a valid bearer token
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/api/progress/", h.getProgress)
		r.With(h.openWindowHashing).Post("/api/progress/open", h.openWindow)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
