package simpleblog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service is the transport-agnostic contract of the blog content engine.
// All blocking operations take a context and suspend at external-store
// calls; there is no shared mutable state between requests beyond the pure
// layout and publication functions.
type Service interface {
	// Post operations. Reads apply lazy promotion: a scheduled post whose
	// time has passed is returned as published even if the periodic sweep
	// has not run yet.
	CreatePost(ctx context.Context, req CreatePostRequest) (*CreatePostResult, error)
	GetPost(ctx context.Context, id uuid.UUID) (*PostDetails, error)
	ListPosts(ctx context.Context, filters PostListFilters) ([]*Post, error)
	UpdatePost(ctx context.Context, req UpdatePostRequest) (*Post, error)
	DeletePost(ctx context.Context, actor Identity, id uuid.UUID) error

	// Gallery operations. Each maintains the dense 0..n-1 sort-order
	// invariant and re-derives the post's cover.
	AddPostImages(ctx context.Context, req AddPostImagesRequest) (*AddPostImagesResult, error)
	ReorderPostImages(ctx context.Context, req ReorderPostImagesRequest) ([]*PostImage, error)
	DeletePostImage(ctx context.Context, req DeletePostImageRequest) error
	SetImageFocalPoint(ctx context.Context, req SetImageFocalPointRequest) (*PostImage, error)
	SetImageAltText(ctx context.Context, req SetImageAltTextRequest) (*PostImage, error)

	// Tag operations.
	CreateTag(ctx context.Context, req CreateTagRequest) (*Tag, error)
	ListTags(ctx context.Context) ([]*Tag, error)
	DeleteTag(ctx context.Context, actor Identity, id uuid.UUID) error
	SetPostTags(ctx context.Context, req SetPostTagsRequest) ([]*Tag, error)

	// Comment operations.
	AddComment(ctx context.Context, req AddCommentRequest) (*Comment, error)
	ListComments(ctx context.Context, postID uuid.UUID) ([]*Comment, error)
	DeleteComment(ctx context.Context, req DeleteCommentRequest) error
	ToggleCommentLike(ctx context.Context, req ToggleCommentLikeRequest) (bool, error)

	// Administrative operations.
	ReassignLayouts(ctx context.Context, actor Identity) (*LayoutDistribution, error)
	PublishDueScheduled(ctx context.Context) (*PublishSweepResult, error)
	SweepOrphans(ctx context.Context, actor Identity) (*OrphanSweepResult, error)

	// RunScheduler runs the periodic auto-publish sweep until the context
	// is cancelled.
	RunScheduler(ctx context.Context, interval time.Duration)
}
