package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// CommentHandler handles HTTP requests for comments.
type CommentHandler struct {
	service simpleblog.Service
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(service simpleblog.Service) *CommentHandler {
	return &CommentHandler{service: service}
}

// AddCommentRequest is the request body for adding a comment.
type AddCommentRequest struct {
	Body string `json:"body"`
}

// AddComment adds a comment to a post.
func (h *CommentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid post ID", http.StatusBadRequest)
		return
	}

	var req AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	comment, err := h.service.AddComment(r.Context(), simpleblog.AddCommentRequest{
		Actor:  actor,
		PostID: postID,
		Body:   req.Body,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, comment)
}

// ListComments returns a post's comments.
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid post ID", http.StatusBadRequest)
		return
	}

	comments, err := h.service.ListComments(r.Context(), postID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	render.JSON(w, r, comments)
}

// DeleteComment deletes a comment. Author or admin only.
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid comment ID", http.StatusBadRequest)
		return
	}

	err = h.service.DeleteComment(r.Context(), simpleblog.DeleteCommentRequest{
		Actor:     actor,
		CommentID: id,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleLikeResponse reports the like state after a toggle.
type ToggleLikeResponse struct {
	Liked bool `json:"liked"`
}

// ToggleLike flips the caller's like on a comment.
func (h *CommentHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	actor, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid comment ID", http.StatusBadRequest)
		return
	}

	liked, err := h.service.ToggleCommentLike(r.Context(), simpleblog.ToggleCommentLikeRequest{
		Actor:     actor,
		CommentID: id,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	render.JSON(w, r, ToggleLikeResponse{Liked: liked})
}
