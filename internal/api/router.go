// Package api exposes the blog engine over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// NewRouter builds the HTTP API. Reads are public; writes require a bearer
// token verified by the supplied verifier.
func NewRouter(service simpleblog.Service, verifier simpleblog.TokenVerifier) chi.Router {
	posts := NewPostHandler(service)
	tags := NewTagHandler(service)
	comments := NewCommentHandler(service)
	admin := NewAdminHandler(service)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public reads. Lazy publication promotion happens inside the
		// service, so these see scheduled posts flip to published on time
		// even between sweeps.
		r.Get("/posts", posts.ListPosts)
		r.Get("/posts/{id}", posts.GetPost)
		r.Get("/posts/{id}/comments", comments.ListComments)
		r.Get("/tags", tags.ListTags)

		// Authenticated writes.
		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(verifier))

			r.Post("/posts", posts.CreatePost)
			r.Patch("/posts/{id}", posts.UpdatePost)
			r.Delete("/posts/{id}", posts.DeletePost)

			r.Post("/posts/{id}/images", posts.AddImages)
			r.Put("/posts/{id}/images/order", posts.ReorderImages)
			r.Delete("/posts/{id}/images/{imageID}", posts.DeleteImage)
			r.Put("/posts/{id}/images/{imageID}/focal-point", posts.SetFocalPoint)
			r.Put("/posts/{id}/images/{imageID}/alt-text", posts.SetAltText)

			r.Put("/posts/{id}/tags", posts.SetTags)
			r.Post("/posts/{id}/comments", comments.AddComment)

			r.Post("/tags", tags.CreateTag)
			r.Delete("/tags/{id}", tags.DeleteTag)

			r.Delete("/comments/{id}", comments.DeleteComment)
			r.Post("/comments/{id}/like", comments.ToggleLike)

			r.Mount("/admin", admin.Routes())
		})
	})

	return r
}
