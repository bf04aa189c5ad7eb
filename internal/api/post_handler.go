package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// PostHandler handles HTTP requests for posts and their galleries.
type PostHandler struct {
	service simpleblog.Service
}

// NewPostHandler creates a new post handler.
func NewPostHandler(service simpleblog.Service) *PostHandler {
	return &PostHandler{service: service}
}

// CreatePostForm is the JSON part of a post creation request. File parts are
// read from the multipart form under the "images" field.
type CreatePostForm struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	Status        string   `json:"status,omitempty"`
	ScheduledFor  string   `json:"scheduled_for,omitempty"`
	CoverImageURL string   `json:"cover_image_url,omitempty"`
	TagIDs        []string `json:"tag_ids,omitempty"`
}

// CreatePost creates a post, optionally uploading its initial gallery in the
// same request.
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	actor, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var form CreatePostForm
	var files []simpleblog.FileUpload

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(64 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		form.Title = r.FormValue("title")
		form.Description = r.FormValue("description")
		form.Category = r.FormValue("category")
		form.Status = r.FormValue("status")
		form.ScheduledFor = r.FormValue("scheduled_for")
		form.CoverImageURL = r.FormValue("cover_image_url")
		form.TagIDs = r.MultipartForm.Value["tag_ids"]

		uploads, err := readFileParts(r.MultipartForm.File["images"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		files = uploads
	} else {
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	req := simpleblog.CreatePostRequest{
		Actor:       actor,
		Title:       form.Title,
		Description: form.Description,
		Category:    form.Category,
		Files:       files,
	}
	if form.Status != "" {
		req.Status = simpleblog.PostStatus(form.Status)
	}
	if form.ScheduledFor != "" {
		scheduledFor, err := time.Parse(time.RFC3339, form.ScheduledFor)
		if err != nil {
			http.Error(w, "invalid scheduled_for timestamp", http.StatusBadRequest)
			return
		}
		req.ScheduledFor = &scheduledFor
	}
	if form.CoverImageURL != "" {
		req.CoverImageURL = &form.CoverImageURL
	}
	tagIDs, err := parseUUIDs(form.TagIDs)
	if err != nil {
		http.Error(w, "invalid tag id", http.StatusBadRequest)
		return
	}
	req.TagIDs = tagIDs

	result, err := h.service.CreatePost(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, result)
}

// GetPost returns a post with its gallery and tags.
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid post ID", http.StatusBadRequest)
		return
	}

	details, err := h.service.GetPost(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	render.JSON(w, r, details)
}

// ListPosts returns posts matching the query filters.
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	var filters simpleblog.PostListFilters

	if v := r.URL.Query().Get("status"); v != "" {
		status := simpleblog.PostStatus(v)
		if !status.IsValid() {
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}
		filters.Status = &status
	}
	if v := r.URL.Query().Get("search"); v != "" {
		filters.Search = &v
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		filters.Limit = &limit
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			http.Error(w, "invalid offset", http.StatusBadRequest)
			return
		}
		filters.Offset = &offset
	}

	posts, err := h.service.ListPosts(r.Context(), filters)
	if err != nil {
		respondError(w, r, err)
		return
	}
	render.JSON(w, r, posts)
}

// UpdatePostForm is the request body for a partial post update.
type UpdatePostForm struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	Category     *string `json:"category,omitempty"`
	Status       *string `json:"status,omitempty"`
	ScheduledFor *string `json:"scheduled_for,omitempty"`
}

// UpdatePost applies a partial update; omitted fields are unchanged.
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	actor, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid post ID", http.StatusBadRequest)
		return
	}

	var form UpdatePostForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req := simpleblog.UpdatePostRequest{
		Actor:       actor,
		PostID:      id,
		Title:       form.Title,
		Description: form.Description,
		Category:    form.Category,
	}
	if form.Status != nil {
		status := simpleblog.PostStatus(*form.Status)
		req.Status = &status
	}
	if form.ScheduledFor != nil {
		scheduledFor, err := time.Parse(time.RFC3339, *form.ScheduledFor)
		if err != nil {
			http.Error(w, "invalid scheduled_for timestamp", http.StatusBadRequest)
			return
		}
		req.ScheduledFor = &scheduledFor
	}

	post, err := h.service.UpdatePost(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	render.JSON(w, r, post)
}

// DeletePost deletes a post and its stored images.
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	actor, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid post ID", http.StatusBadRequest)
		return
	}

	if err := h.service.DeletePost(r.Context(), actor, id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddImages appends uploaded files to the post's gallery.
func (h *PostHandler) AddImages(w http.ResponseWriter, r *http.Request) {
	actor, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid post ID", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	files, err := readFileParts(r.MultipartForm.File["images"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(files) == 0 {
		http.Error(w, "no files provided", http.StatusBadRequest)
		return
	}

	result, err := h.service.AddPostImages(r.Context(), simpleblog.AddPostImagesRequest{
		Actor:  actor,
		PostID: id,
		Files:  files,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, result)
}

// ReorderImagesRequest carries the full desired gallery ordering.
type ReorderImagesRequest struct {
	ImageIDs []string `json:"image_ids"`
}

// ReorderImages replaces the gallery ordering with the supplied permutation.
func (h *PostHandler) ReorderImages(w http.ResponseWriter, r *http.Request) {
	actor, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid post ID", http.StatusBadRequest)
		return
	}

	var req ReorderImagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	imageIDs, err := parseUUIDs(req.ImageIDs)
	if err != nil {
		http.Error(w, "invalid image id", http.StatusBadRequest)
		return
	}

	images, err := h.service.ReorderPostImages(r.Context(), simpleblog.ReorderPostImagesRequest{
		Actor:    actor,
		PostID:   id,
		ImageIDs: imageIDs,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	render.JSON(w, r, images)
}

// DeleteImage removes one gallery image.
func (h *PostHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
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
	imageID, err := uuid.Parse(chi.URLParam(r, "imageID"))
	if err != nil {
		http.Error(w, "invalid image ID", http.StatusBadRequest)
		return
	}

	err = h.service.DeletePostImage(r.Context(), simpleblog.DeletePostImageRequest{
		Actor:   actor,
		PostID:  postID,
		ImageID: imageID,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetFocalPoint updates the focal point of one gallery image.
func (h *PostHandler) SetFocalPoint(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, func(actor simpleblog.Identity, postID, imageID uuid.UUID, value string) (*simpleblog.PostImage, error) {
		return h.service.SetImageFocalPoint(r.Context(), simpleblog.SetImageFocalPointRequest{
			Actor:      actor,
			PostID:     postID,
			ImageID:    imageID,
			FocalPoint: value,
		})
	})
}

// SetAltText updates the alt text of one gallery image.
func (h *PostHandler) SetAltText(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, func(actor simpleblog.Identity, postID, imageID uuid.UUID, value string) (*simpleblog.PostImage, error) {
		return h.service.SetImageAltText(r.Context(), simpleblog.SetImageAltTextRequest{
			Actor:   actor,
			PostID:  postID,
			ImageID: imageID,
			AltText: value,
		})
	})
}

// updateImageRequest is the shared body for single-field image updates.
type updateImageRequest struct {
	Value string `json:"value"`
}

func (h *PostHandler) updateImage(w http.ResponseWriter, r *http.Request, apply func(simpleblog.Identity, uuid.UUID, uuid.UUID, string) (*simpleblog.PostImage, error)) {
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
	imageID, err := uuid.Parse(chi.URLParam(r, "imageID"))
	if err != nil {
		http.Error(w, "invalid image ID", http.StatusBadRequest)
		return
	}

	var req updateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	image, err := apply(actor, postID, imageID, req.Value)
	if err != nil {
		respondError(w, r, err)
		return
	}
	render.JSON(w, r, image)
}

// SetTagsRequest carries the full desired tag set for a post.
type SetTagsRequest struct {
	TagIDs []string `json:"tag_ids"`
}

// SetTags replaces the post's tag associations.
func (h *PostHandler) SetTags(w http.ResponseWriter, r *http.Request) {
	actor, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid post ID", http.StatusBadRequest)
		return
	}

	var req SetTagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tagIDs, err := parseUUIDs(req.TagIDs)
	if err != nil {
		http.Error(w, "invalid tag id", http.StatusBadRequest)
		return
	}

	tags, err := h.service.SetPostTags(r.Context(), simpleblog.SetPostTagsRequest{
		Actor:  actor,
		PostID: id,
		TagIDs: tagIDs,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	render.JSON(w, r, tags)
}

// readFileParts materializes multipart file headers into uploads.
func readFileParts(headers []*multipart.FileHeader) ([]simpleblog.FileUpload, error) {
	var uploads []simpleblog.FileUpload
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, err
		}

		uploads = append(uploads, simpleblog.FileUpload{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
		slog.Debug("read upload part", "file_name", header.Filename, "size", len(data))
	}
	return uploads, nil
}

func parseUUIDs(values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, value := range values {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
