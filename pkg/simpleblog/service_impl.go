package simpleblog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/tendant/simple-blog/pkg/simpleblog/objectkey"
)

// service implements the Service interface
type service struct {
	repository Repository
	assets     assetManager
	clock      Clock
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the object storage backend
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.assets.store = store
	}
}

// WithImageCodec sets the image codec used for upload conversion
func WithImageCodec(codec ImageCodec) Option {
	return func(s *service) {
		s.assets.codec = codec
	}
}

// WithKeyGenerator sets the object key generation strategy
func WithKeyGenerator(gen objectkey.Generator) Option {
	return func(s *service) {
		s.assets.keys = gen
	}
}

// WithClock sets the clock used for lifecycle decisions
func WithClock(clock Clock) Option {
	return func(s *service) {
		s.clock = clock
	}
}

// WithMaxUploadBytes bounds accepted image payload sizes
func WithMaxUploadBytes(n int64) Option {
	return func(s *service) {
		if n > 0 {
			s.assets.maxBytes = n
		}
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		assets: assetManager{
			codec:    NewStdCodec(0),
			keys:     objectkey.NewTimestampGenerator("posts/"),
			maxBytes: DefaultMaxUploadBytes,
		},
		clock: NewRealClock(),
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}

	return s, nil
}

// authorize allows the owner or an admin.
func authorize(actor Identity, ownerID uuid.UUID) error {
	if actor.IsAdmin() || actor.UserID == ownerID {
		return nil
	}
	return ErrNotAuthorized
}

// Post operations

func (s *service) CreatePost(ctx context.Context, req CreatePostRequest) (*CreatePostResult, error) {
	now := s.clock.Now()
	status := req.Status
	if status == "" {
		status = PostStatusDraft
	}

	post := &Post{
		ID:            uuid.New(),
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		CoverImageURL: req.CoverImageURL,
		AuthorID:      req.Actor.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := applyTransition(post, status, req.ScheduledFor, now); err != nil {
		return nil, err
	}

	if err := s.repository.CreatePost(ctx, post); err != nil {
		return nil, &PostError{PostID: post.ID, Op: "create", Err: err}
	}

	result := &CreatePostResult{Post: post}

	if len(req.Files) > 0 {
		outcomes, images := s.uploadImages(ctx, post, nil, req.Files)
		result.Uploads = outcomes
		if post.CoverImageURL == nil {
			post.CoverImageURL = coverFromImages(images)
		}
	}

	if len(req.TagIDs) > 0 {
		if err := s.repository.ReplacePostTags(ctx, post.ID, req.TagIDs); err != nil {
			return nil, &PostError{PostID: post.ID, Op: "set_tags", Err: err}
		}
		if tags, err := s.repository.ListPostTags(ctx, post.ID); err == nil {
			result.Tags = tags
		}
	}

	// Insertion shifts every subsequent index, so layout is recomputed for
	// the entire ordered collection, not just the new post.
	layouts, err := s.reassignAll(ctx)
	if err != nil {
		slog.Warn("layout reassignment after insert failed", "post_id", post.ID, "error", err)
	}
	if l, ok := layouts[post.ID]; ok {
		post.LayoutVariant = l.Variant
		post.LayoutHint = l.Hint
	}

	if err := s.repository.UpdatePost(ctx, post); err != nil {
		return nil, &PostError{PostID: post.ID, Op: "create_finalize", Err: err}
	}

	return result, nil
}

func (s *service) GetPost(ctx context.Context, id uuid.UUID) (*PostDetails, error) {
	post, err := s.repository.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	s.promote(ctx, post)

	images, err := s.repository.ListPostImages(ctx, id)
	if err != nil {
		return nil, &PostError{PostID: id, Op: "list_images", Err: err}
	}
	tags, err := s.repository.ListPostTags(ctx, id)
	if err != nil {
		return nil, &PostError{PostID: id, Op: "list_tags", Err: err}
	}

	return &PostDetails{Post: post, Images: images, Tags: tags}, nil
}

func (s *service) ListPosts(ctx context.Context, filters PostListFilters) ([]*Post, error) {
	posts, err := s.repository.ListPosts(ctx, filters)
	if err != nil {
		return nil, err
	}
	for _, post := range posts {
		s.promote(ctx, post)
	}
	return posts, nil
}

// promote applies lazy promotion on a read path. The promoted view is
// returned to the caller even if persisting it fails; the sweep or a later
// read retries the write.
func (s *service) promote(ctx context.Context, post *Post) {
	now := s.clock.Now()
	if !promoteIfDue(post, now) {
		return
	}
	post.UpdatedAt = now
	if err := s.repository.UpdatePost(ctx, post); err != nil {
		slog.Warn("failed to persist lazy promotion", "post_id", post.ID, "error", err)
	} else {
		slog.Info("post promoted on read", "post_id", post.ID)
	}
}

func (s *service) UpdatePost(ctx context.Context, req UpdatePostRequest) (*Post, error) {
	post, err := s.repository.GetPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	if err := authorize(req.Actor, post.AuthorID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Description != nil {
		post.Description = *req.Description
	}
	if req.Category != nil {
		post.Category = *req.Category
	}

	now := s.clock.Now()
	if req.Status != nil {
		scheduledFor := req.ScheduledFor
		if scheduledFor == nil {
			scheduledFor = post.ScheduledFor
		}
		if err := applyTransition(post, *req.Status, scheduledFor, now); err != nil {
			return nil, err
		}
	} else if post.Status != PostStatusPublished && strings.TrimSpace(post.Title) == "" {
		post.Title = placeholderTitle
	}

	// A title edit alone must not leave a published post blank.
	if post.Status == PostStatusPublished && strings.TrimSpace(post.Title) == "" {
		return nil, ErrTitleRequired
	}

	post.UpdatedAt = now
	if err := s.repository.UpdatePost(ctx, post); err != nil {
		return nil, &PostError{PostID: post.ID, Op: "update", Err: err}
	}
	return post, nil
}

func (s *service) DeletePost(ctx context.Context, actor Identity, id uuid.UUID) error {
	post, err := s.repository.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(actor, post.AuthorID); err != nil {
		return err
	}

	images, err := s.repository.ListPostImages(ctx, id)
	if err != nil {
		slog.Warn("listing images before delete failed, storage cleanup deferred to orphan sweep",
			"post_id", id, "error", err)
		images = nil
	}

	// Primary mutation first. Row deletion cascades to images and tag
	// associations; remaining posts keep their stored layout.
	if err := s.repository.DeletePost(ctx, id); err != nil {
		return &PostError{PostID: id, Op: "delete", Err: err}
	}

	for _, img := range images {
		s.assets.removeByURL(ctx, img.URL)
	}
	if post.CoverImageURL != nil && !isGalleryURL(post.CoverImageURL, images) {
		s.assets.removeByURL(ctx, *post.CoverImageURL)
	}
	return nil
}

// Gallery operations

// uploadImages processes files sequentially; one file's failure never aborts
// the others. A stored object whose database record fails is left for the
// orphan sweep.
func (s *service) uploadImages(ctx context.Context, post *Post, existing []*PostImage, files []FileUpload) ([]UploadOutcome, []*PostImage) {
	images := append([]*PostImage{}, existing...)
	outcomes := make([]UploadOutcome, 0, len(files))
	next := len(existing)

	for _, f := range files {
		outcome := UploadOutcome{FileName: f.FileName}

		url, converted, err := s.assets.storeFile(ctx, f)
		if err != nil {
			outcome.Error = err.Error()
			slog.Warn("image upload failed", "post_id", post.ID, "file", f.FileName, "error", err)
			outcomes = append(outcomes, outcome)
			continue
		}

		img := &PostImage{
			ID:        uuid.New(),
			PostID:    post.ID,
			URL:       url,
			SortOrder: next,
			CreatedAt: s.clock.Now(),
		}
		if err := s.repository.CreatePostImage(ctx, img); err != nil {
			outcome.Error = err.Error()
			slog.Warn("image record create failed, object left for orphan sweep",
				"post_id", post.ID, "url", url, "error", err)
			outcomes = append(outcomes, outcome)
			continue
		}

		next++
		outcome.URL = url
		outcome.Converted = converted
		outcome.Image = img
		images = append(images, img)
		outcomes = append(outcomes, outcome)
	}
	return outcomes, images
}

func (s *service) AddPostImages(ctx context.Context, req AddPostImagesRequest) (*AddPostImagesResult, error) {
	post, err := s.repository.GetPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	if err := authorize(req.Actor, post.AuthorID); err != nil {
		return nil, err
	}

	existing, err := s.repository.ListPostImages(ctx, req.PostID)
	if err != nil {
		return nil, &PostError{PostID: req.PostID, Op: "list_images", Err: err}
	}

	outcomes, images := s.uploadImages(ctx, post, existing, req.Files)

	if post.CoverImageURL == nil && len(images) > 0 {
		post.CoverImageURL = coverFromImages(images)
		post.UpdatedAt = s.clock.Now()
		if err := s.repository.UpdatePost(ctx, post); err != nil {
			return nil, &PostError{PostID: post.ID, Op: "set_cover", Err: err}
		}
	}

	return &AddPostImagesResult{Post: post, Uploads: outcomes}, nil
}

func (s *service) ReorderPostImages(ctx context.Context, req ReorderPostImagesRequest) ([]*PostImage, error) {
	post, err := s.repository.GetPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	if err := authorize(req.Actor, post.AuthorID); err != nil {
		return nil, err
	}

	images, err := s.repository.ListPostImages(ctx, req.PostID)
	if err != nil {
		return nil, &PostError{PostID: req.PostID, Op: "list_images", Err: err}
	}

	byID := make(map[uuid.UUID]*PostImage, len(images))
	for _, img := range images {
		byID[img.ID] = img
	}
	if len(req.ImageIDs) != len(images) {
		return nil, fmt.Errorf("%w: ordering must include all %d images", ErrValidation, len(images))
	}
	ordered := make([]*PostImage, 0, len(images))
	for _, id := range req.ImageIDs {
		img, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: image %s does not belong to post", ErrValidation, id)
		}
		delete(byID, id)
		ordered = append(ordered, img)
	}

	for _, img := range reindexImages(ordered) {
		if err := s.repository.UpdatePostImage(ctx, img); err != nil {
			return nil, &ImageError{ImageID: img.ID, Op: "reorder", Err: err}
		}
	}

	// A legacy direct cover survives reorders; a gallery-backed cover tracks
	// the new order-0 image.
	if post.CoverImageURL == nil || isGalleryURL(post.CoverImageURL, ordered) {
		post.CoverImageURL = coverFromImages(ordered)
		post.UpdatedAt = s.clock.Now()
		if err := s.repository.UpdatePost(ctx, post); err != nil {
			return nil, &PostError{PostID: post.ID, Op: "set_cover", Err: err}
		}
	}

	return ordered, nil
}

func (s *service) DeletePostImage(ctx context.Context, req DeletePostImageRequest) error {
	post, err := s.repository.GetPost(ctx, req.PostID)
	if err != nil {
		return err
	}
	if err := authorize(req.Actor, post.AuthorID); err != nil {
		return err
	}

	img, err := s.repository.GetPostImage(ctx, req.ImageID)
	if err != nil {
		return err
	}
	if img.PostID != req.PostID {
		return ErrImageNotFound
	}

	if err := s.repository.DeletePostImage(ctx, req.ImageID); err != nil {
		return &ImageError{ImageID: req.ImageID, Op: "delete", Err: err}
	}

	remaining, err := s.repository.ListPostImages(ctx, req.PostID)
	if err != nil {
		return &PostError{PostID: req.PostID, Op: "list_images", Err: err}
	}
	for _, changed := range reindexImages(remaining) {
		if err := s.repository.UpdatePostImage(ctx, changed); err != nil {
			return &ImageError{ImageID: changed.ID, Op: "reindex", Err: err}
		}
	}

	if post.CoverImageURL != nil && *post.CoverImageURL == img.URL {
		post.CoverImageURL = coverFromImages(remaining)
		post.UpdatedAt = s.clock.Now()
		if err := s.repository.UpdatePost(ctx, post); err != nil {
			return &PostError{PostID: post.ID, Op: "set_cover", Err: err}
		}
	}

	s.assets.removeByURL(ctx, img.URL)
	return nil
}

func (s *service) SetImageFocalPoint(ctx context.Context, req SetImageFocalPointRequest) (*PostImage, error) {
	return s.updateImage(ctx, req.Actor, req.PostID, req.ImageID, func(img *PostImage) {
		img.FocalPoint = &req.FocalPoint
	})
}

func (s *service) SetImageAltText(ctx context.Context, req SetImageAltTextRequest) (*PostImage, error) {
	return s.updateImage(ctx, req.Actor, req.PostID, req.ImageID, func(img *PostImage) {
		img.AltText = &req.AltText
	})
}

func (s *service) updateImage(ctx context.Context, actor Identity, postID, imageID uuid.UUID, apply func(*PostImage)) (*PostImage, error) {
	post, err := s.repository.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, post.AuthorID); err != nil {
		return nil, err
	}

	img, err := s.repository.GetPostImage(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if img.PostID != postID {
		return nil, ErrImageNotFound
	}

	apply(img)
	if err := s.repository.UpdatePostImage(ctx, img); err != nil {
		return nil, &ImageError{ImageID: imageID, Op: "update", Err: err}
	}
	return img, nil
}

// Tag operations

func (s *service) CreateTag(ctx context.Context, req CreateTagRequest) (*Tag, error) {
	slug := Slugify(req.Name)
	if slug == "" {
		return nil, fmt.Errorf("%w: tag name is required", ErrValidation)
	}

	existing, err := s.repository.GetTagBySlug(ctx, slug)
	if err == nil {
		// Idempotent create: slugs are unique.
		return existing, nil
	}
	if !errors.Is(err, ErrTagNotFound) {
		return nil, err
	}

	tag := &Tag{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(req.Name),
		Slug:      slug,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repository.CreateTag(ctx, tag); err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return tag, nil
}

func (s *service) ListTags(ctx context.Context) ([]*Tag, error) {
	return s.repository.ListTags(ctx)
}

func (s *service) DeleteTag(ctx context.Context, actor Identity, id uuid.UUID) error {
	// Tags are shared across posts, so deletion is admin-gated.
	if !actor.IsAdmin() {
		return ErrNotAuthorized
	}
	return s.repository.DeleteTag(ctx, id)
}

func (s *service) SetPostTags(ctx context.Context, req SetPostTagsRequest) ([]*Tag, error) {
	post, err := s.repository.GetPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	if err := authorize(req.Actor, post.AuthorID); err != nil {
		return nil, err
	}

	for _, id := range req.TagIDs {
		if _, err := s.repository.GetTag(ctx, id); err != nil {
			return nil, err
		}
	}

	// Associations are recreated wholesale, not diffed.
	if err := s.repository.ReplacePostTags(ctx, req.PostID, req.TagIDs); err != nil {
		return nil, &PostError{PostID: req.PostID, Op: "set_tags", Err: err}
	}
	return s.repository.ListPostTags(ctx, req.PostID)
}

// Comment operations

func (s *service) AddComment(ctx context.Context, req AddCommentRequest) (*Comment, error) {
	if strings.TrimSpace(req.Body) == "" {
		return nil, fmt.Errorf("%w: comment body is required", ErrValidation)
	}
	if _, err := s.repository.GetPost(ctx, req.PostID); err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:        uuid.New(),
		PostID:    req.PostID,
		AuthorID:  req.Actor.UserID,
		Body:      req.Body,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repository.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

func (s *service) ListComments(ctx context.Context, postID uuid.UUID) ([]*Comment, error) {
	return s.repository.ListComments(ctx, postID)
}

func (s *service) DeleteComment(ctx context.Context, req DeleteCommentRequest) error {
	comment, err := s.repository.GetComment(ctx, req.CommentID)
	if err != nil {
		return err
	}
	if err := authorize(req.Actor, comment.AuthorID); err != nil {
		return err
	}
	return s.repository.DeleteComment(ctx, req.CommentID)
}

func (s *service) ToggleCommentLike(ctx context.Context, req ToggleCommentLikeRequest) (bool, error) {
	if _, err := s.repository.GetComment(ctx, req.CommentID); err != nil {
		return false, err
	}
	return s.repository.ToggleCommentLike(ctx, req.CommentID, req.Actor.UserID)
}
