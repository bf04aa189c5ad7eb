package simpleblog

import (
	"time"

	"github.com/google/uuid"
)

// Request/Response DTOs

// FileUpload is one file of a multi-file image upload.
type FileUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// CreatePostRequest contains parameters for creating a new post.
type CreatePostRequest struct {
	Actor       Identity
	Title       string
	Description string
	Category    string
	// Status defaults to draft when empty.
	Status       PostStatus
	ScheduledFor *time.Time
	// CoverImageURL is an optional legacy direct cover, independent of the
	// gallery.
	CoverImageURL *string
	Files         []FileUpload
	TagIDs        []uuid.UUID
}

// CreatePostResult is the enriched result of a post creation.
type CreatePostResult struct {
	Post    *Post           `json:"post"`
	Uploads []UploadOutcome `json:"uploads,omitempty"`
	Tags    []*Tag          `json:"tags,omitempty"`
}

// UpdatePostRequest contains parameters for updating a post. Nil fields are
// left unchanged.
type UpdatePostRequest struct {
	Actor        Identity
	PostID       uuid.UUID
	Title        *string
	Description  *string
	Category     *string
	Status       *PostStatus
	ScheduledFor *time.Time
}

// PostDetails is a post enriched with its owned collections.
type PostDetails struct {
	Post   *Post        `json:"post"`
	Images []*PostImage `json:"images"`
	Tags   []*Tag       `json:"tags"`
}

// AddPostImagesRequest contains parameters for a multi-file gallery upload.
type AddPostImagesRequest struct {
	Actor  Identity
	PostID uuid.UUID
	Files  []FileUpload
}

// AddPostImagesResult reports the per-file breakdown of a gallery upload.
type AddPostImagesResult struct {
	Post    *Post           `json:"post"`
	Uploads []UploadOutcome `json:"uploads"`
}

// ReorderPostImagesRequest contains the full desired ordering of a post's
// gallery. ImageIDs must be a permutation of the existing gallery.
type ReorderPostImagesRequest struct {
	Actor    Identity
	PostID   uuid.UUID
	ImageIDs []uuid.UUID
}

// DeletePostImageRequest contains parameters for deleting a gallery image.
type DeletePostImageRequest struct {
	Actor   Identity
	PostID  uuid.UUID
	ImageID uuid.UUID
}

// SetImageFocalPointRequest sets the focal point of a gallery image.
type SetImageFocalPointRequest struct {
	Actor      Identity
	PostID     uuid.UUID
	ImageID    uuid.UUID
	FocalPoint string
}

// SetImageAltTextRequest sets the alt text of a gallery image.
type SetImageAltTextRequest struct {
	Actor   Identity
	PostID  uuid.UUID
	ImageID uuid.UUID
	AltText string
}

// CreateTagRequest contains parameters for creating a tag.
type CreateTagRequest struct {
	Actor Identity
	Name  string
}

// SetPostTagsRequest recreates a post's tag associations wholesale.
type SetPostTagsRequest struct {
	Actor  Identity
	PostID uuid.UUID
	TagIDs []uuid.UUID
}

// AddCommentRequest contains parameters for adding a comment.
type AddCommentRequest struct {
	Actor  Identity
	PostID uuid.UUID
	Body   string
}

// DeleteCommentRequest contains parameters for deleting a comment.
// Deletion is author-only (or admin).
type DeleteCommentRequest struct {
	Actor     Identity
	CommentID uuid.UUID
}

// ToggleCommentLikeRequest flips the actor's like on a comment.
type ToggleCommentLikeRequest struct {
	Actor     Identity
	CommentID uuid.UUID
}
