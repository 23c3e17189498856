package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nordlund/linkwise/internal/noteservice"
	"github.com/nordlund/linkwise/internal/rewrite"
	"github.com/nordlund/linkwise/internal/settings"
	"github.com/nordlund/linkwise/internal/sse"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *noteservice.Service, rw *rewrite.Rewriter, st *settings.Store, broker *sse.Broker, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, rw, st, broker)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Notes CRUD.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Get("/notes/*", h.GetNote)
	r.Put("/notes/*", h.UpdateNote)
	r.Delete("/notes/*", h.DeleteNote)

	// Search and links.
	r.Get("/search", h.Search)
	r.Get("/backlinks", h.Backlinks)

	// Link shortening.
	r.Post("/rewrite", h.Rewrite)
	r.Post("/display", h.ShortenDisplay)

	// Settings.
	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.UpdateSettings)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
