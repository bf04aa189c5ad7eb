package simpleblog

import (
	"context"
	"image"
	"io"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for post, image, tag, comment and profile
// persistence.
type Repository interface {
	// Post operations
	CreatePost(ctx context.Context, post *Post) error
	GetPost(ctx context.Context, id uuid.UUID) (*Post, error)
	UpdatePost(ctx context.Context, post *Post) error
	DeletePost(ctx context.Context, id uuid.UUID) error
	ListPosts(ctx context.Context, filters PostListFilters) ([]*Post, error)
	// ListPostsByCreation returns all posts ordered by creation time,
	// descending. Used for full-collection layout reassignment.
	ListPostsByCreation(ctx context.Context) ([]*Post, error)
	// ListScheduledDue returns scheduled posts whose scheduled_for is at or
	// before now.
	ListScheduledDue(ctx context.Context, now time.Time) ([]*Post, error)
	// UpsertPostLayouts applies layout assignments as a single bulk
	// statement where the backend supports it.
	UpsertPostLayouts(ctx context.Context, layouts []PostLayout) error

	// Gallery image operations
	CreatePostImage(ctx context.Context, img *PostImage) error
	GetPostImage(ctx context.Context, id uuid.UUID) (*PostImage, error)
	ListPostImages(ctx context.Context, postID uuid.UUID) ([]*PostImage, error)
	ListAllPostImages(ctx context.Context) ([]*PostImage, error)
	UpdatePostImage(ctx context.Context, img *PostImage) error
	DeletePostImage(ctx context.Context, id uuid.UUID) error

	// Tag operations
	CreateTag(ctx context.Context, tag *Tag) error
	GetTag(ctx context.Context, id uuid.UUID) (*Tag, error)
	GetTagBySlug(ctx context.Context, slug string) (*Tag, error)
	ListTags(ctx context.Context) ([]*Tag, error)
	DeleteTag(ctx context.Context, id uuid.UUID) error
	// ReplacePostTags recreates a post's tag associations wholesale.
	ReplacePostTags(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error
	ListPostTags(ctx context.Context, postID uuid.UUID) ([]*Tag, error)

	// Comment operations
	CreateComment(ctx context.Context, comment *Comment) error
	GetComment(ctx context.Context, id uuid.UUID) (*Comment, error)
	ListComments(ctx context.Context, postID uuid.UUID) ([]*Comment, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error
	// ToggleCommentLike flips the like state and reports the resulting state.
	ToggleCommentLike(ctx context.Context, commentID, userID uuid.UUID) (bool, error)

	// Profile operations
	GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error)
	ListProfiles(ctx context.Context) ([]*Profile, error)
}

// BlobStore defines the interface for object storage backends.
type BlobStore interface {
	// Upload stores the object and returns its public URL.
	Upload(ctx context.Context, objectKey string, reader io.Reader, contentType string) (string, error)

	// Download retrieves the object's bytes.
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// Delete removes the object.
	Delete(ctx context.Context, objectKey string) error

	// List returns the keys of all objects under the prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// URLFor returns the public URL an object key resolves to.
	URLFor(objectKey string) string

	// KeyFor is the inverse of URLFor. It reports false for URLs that do
	// not belong to this store.
	KeyFor(url string) (string, bool)
}

// TokenVerifier resolves a bearer token to a caller identity.
type TokenVerifier interface {
	Verify(ctx context.Context, bearerToken string) (*Identity, error)
}

// Clock supplies the current time. Injected so lifecycle-state tests can
// simulate arbitrary "now".
type Clock interface {
	Now() time.Time
}

// ImageCodec decodes source images and encodes the space-efficient target
// format. Conversion is best-effort; callers fall back to the original bytes
// when either direction fails.
type ImageCodec interface {
	Decode(data []byte, contentType string) (image.Image, error)
	Encode(img image.Image, quality int) ([]byte, error)
}
