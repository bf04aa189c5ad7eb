package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, simpleblog.ErrPostNotFound),
		errors.Is(err, simpleblog.ErrImageNotFound),
		errors.Is(err, simpleblog.ErrTagNotFound),
		errors.Is(err, simpleblog.ErrCommentNotFound),
		errors.Is(err, simpleblog.ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, simpleblog.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, simpleblog.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, simpleblog.ErrInvalidStatus),
		errors.Is(err, simpleblog.ErrInvalidSchedule),
		errors.Is(err, simpleblog.ErrPastSchedule),
		errors.Is(err, simpleblog.ErrTitleRequired),
		errors.Is(err, simpleblog.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error as JSON with the mapped status code.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		render.Status(r, status)
		render.JSON(w, r, ErrorResponse{Error: "internal error"})
		return
	}
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: err.Error()})
}
