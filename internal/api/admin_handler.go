package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// AdminHandler handles administrative maintenance endpoints.
type AdminHandler struct {
	service simpleblog.Service
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(service simpleblog.Service) *AdminHandler {
	return &AdminHandler{service: service}
}

// Routes returns the admin routes. All require a bearer token; the service
// enforces the admin role.
func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/layouts/reassign", h.ReassignLayouts)
	r.Post("/publish-due", h.PublishDue)
	r.Post("/orphans/sweep", h.SweepOrphans)
	return r
}

// ReassignLayouts recomputes every post's layout and reports the resulting
// variant distribution.
func (h *AdminHandler) ReassignLayouts(w http.ResponseWriter, r *http.Request) {
	actor, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	distribution, err := h.service.ReassignLayouts(r.Context(), actor)
	if err != nil {
		respondError(w, r, err)
		return
	}
	render.JSON(w, r, distribution)
}

// PublishDue runs one scheduled-post publish sweep immediately.
func (h *AdminHandler) PublishDue(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.PublishDueScheduled(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

// SweepOrphans deletes stored objects no database row references.
func (h *AdminHandler) SweepOrphans(w http.ResponseWriter, r *http.Request) {
	actor, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	result, err := h.service.SweepOrphans(r.Context(), actor)
	if err != nil {
		respondError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}
