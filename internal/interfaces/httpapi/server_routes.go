package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

func registerSystemRoutes(r chi.Router, handler *Handler) {
	r.Get("/health", handler.Health)
}

func registerMatchRoutes(r chi.Router, handler *Handler) {
	r.Route("/api/matches", func(r chi.Router) {
		r.Get("/upcoming", handler.ListUpcoming)
		r.Get("/matchweek/{matchweek}", handler.ListByMatchweek)
		r.Get("/status/{status}", handler.ListByStatus)
		r.Get("/{id}", handler.GetMatch)
	})
}

// Internal job routes exist only when a token is configured.
func registerInternalJobRoutes(r chi.Router, handler *Handler, internalJobToken string) {
	if strings.TrimSpace(internalJobToken) == "" {
		return
	}
	r.Route("/internal/sync", func(r chi.Router) {
		r.Method(http.MethodPost, "/full", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunFullSync)))
		r.Method(http.MethodPost, "/live", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunLiveSync)))
	})
}
