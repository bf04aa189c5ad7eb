package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// TagHandler handles HTTP requests for tags.
type TagHandler struct {
	service simpleblog.Service
}

// NewTagHandler creates a new tag handler.
func NewTagHandler(service simpleblog.Service) *TagHandler {
	return &TagHandler{service: service}
}

// CreateTagRequest is the request body for creating a tag.
type CreateTagRequest struct {
	Name string `json:"name"`
}

// CreateTag creates a tag, returning the existing one when the slug is
// already taken.
func (h *TagHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	actor, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req CreateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tag, err := h.service.CreateTag(r.Context(), simpleblog.CreateTagRequest{
		Actor: actor,
		Name:  req.Name,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, tag)
}

// ListTags returns all tags.
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.ListTags(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	render.JSON(w, r, tags)
}

// DeleteTag deletes a tag and its post associations. Admin only.
func (h *TagHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	actor, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid tag ID", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteTag(r.Context(), actor, id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
