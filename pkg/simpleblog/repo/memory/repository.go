package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// Repository implements simpleblog.Repository using in-memory storage
type Repository struct {
	mu           sync.RWMutex
	posts        map[uuid.UUID]*simpleblog.Post
	images       map[uuid.UUID]*simpleblog.PostImage
	imagesByPost map[uuid.UUID][]uuid.UUID
	tags         map[uuid.UUID]*simpleblog.Tag
	tagsBySlug   map[string]uuid.UUID
	postTags     map[uuid.UUID][]uuid.UUID // post_id -> []tag_id
	comments     map[uuid.UUID]*simpleblog.Comment
	commentLikes map[uuid.UUID]map[uuid.UUID]struct{} // comment_id -> user ids
	profiles     map[uuid.UUID]*simpleblog.Profile
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		posts:        make(map[uuid.UUID]*simpleblog.Post),
		images:       make(map[uuid.UUID]*simpleblog.PostImage),
		imagesByPost: make(map[uuid.UUID][]uuid.UUID),
		tags:         make(map[uuid.UUID]*simpleblog.Tag),
		tagsBySlug:   make(map[string]uuid.UUID),
		postTags:     make(map[uuid.UUID][]uuid.UUID),
		comments:     make(map[uuid.UUID]*simpleblog.Comment),
		commentLikes: make(map[uuid.UUID]map[uuid.UUID]struct{}),
		profiles:     make(map[uuid.UUID]*simpleblog.Profile),
	}
}

// Post operations

func (r *Repository) CreatePost(ctx context.Context, post *simpleblog.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to avoid external modifications
	postCopy := *post
	r.posts[post.ID] = &postCopy
	return nil
}

func (r *Repository) GetPost(ctx context.Context, id uuid.UUID) (*simpleblog.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, exists := r.posts[id]
	if !exists {
		return nil, simpleblog.ErrPostNotFound
	}
	postCopy := *post
	return &postCopy, nil
}

func (r *Repository) UpdatePost(ctx context.Context, post *simpleblog.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.posts[post.ID]; !exists {
		return simpleblog.ErrPostNotFound
	}
	postCopy := *post
	r.posts[post.ID] = &postCopy
	return nil
}

func (r *Repository) DeletePost(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.posts[id]; !exists {
		return simpleblog.ErrPostNotFound
	}
	delete(r.posts, id)

	// Cascade to owned collections
	for _, imgID := range r.imagesByPost[id] {
		delete(r.images, imgID)
	}
	delete(r.imagesByPost, id)
	delete(r.postTags, id)
	for cid, c := range r.comments {
		if c.PostID == id {
			delete(r.comments, cid)
			delete(r.commentLikes, cid)
		}
	}
	return nil
}

func (r *Repository) ListPosts(ctx context.Context, filters simpleblog.PostListFilters) ([]*simpleblog.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var posts []*simpleblog.Post
	for _, post := range r.posts {
		if filters.Status != nil && post.Status != *filters.Status {
			continue
		}
		if filters.Search != nil && *filters.Search != "" &&
			!strings.Contains(strings.ToLower(post.Title), strings.ToLower(*filters.Search)) {
			continue
		}
		postCopy := *post
		posts = append(posts, &postCopy)
	}

	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	offset := 0
	if filters.Offset != nil && *filters.Offset > 0 {
		offset = *filters.Offset
	}
	if offset >= len(posts) {
		return []*simpleblog.Post{}, nil
	}
	posts = posts[offset:]
	if filters.Limit != nil && *filters.Limit > 0 && *filters.Limit < len(posts) {
		posts = posts[:*filters.Limit]
	}
	return posts, nil
}

func (r *Repository) ListPostsByCreation(ctx context.Context) ([]*simpleblog.Post, error) {
	return r.ListPosts(ctx, simpleblog.PostListFilters{})
}

func (r *Repository) ListScheduledDue(ctx context.Context, now time.Time) ([]*simpleblog.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var due []*simpleblog.Post
	for _, post := range r.posts {
		if post.Status != simpleblog.PostStatusScheduled || post.ScheduledFor == nil {
			continue
		}
		if post.ScheduledFor.After(now) {
			continue
		}
		postCopy := *post
		due = append(due, &postCopy)
	}
	sort.Slice(due, func(i, j int) bool {
		return due[i].ScheduledFor.Before(*due[j].ScheduledFor)
	})
	return due, nil
}

func (r *Repository) UpsertPostLayouts(ctx context.Context, layouts []simpleblog.PostLayout) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range layouts {
		post, exists := r.posts[l.PostID]
		if !exists {
			// Post deleted since the assignment was computed; skip.
			continue
		}
		post.LayoutVariant = l.Variant
		post.LayoutHint = l.Hint
	}
	return nil
}

// Gallery image operations

func (r *Repository) CreatePostImage(ctx context.Context, img *simpleblog.PostImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.posts[img.PostID]; !exists {
		return simpleblog.ErrPostNotFound
	}
	imgCopy := *img
	r.images[img.ID] = &imgCopy
	r.imagesByPost[img.PostID] = append(r.imagesByPost[img.PostID], img.ID)
	return nil
}

func (r *Repository) GetPostImage(ctx context.Context, id uuid.UUID) (*simpleblog.PostImage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	img, exists := r.images[id]
	if !exists {
		return nil, simpleblog.ErrImageNotFound
	}
	imgCopy := *img
	return &imgCopy, nil
}

func (r *Repository) ListPostImages(ctx context.Context, postID uuid.UUID) ([]*simpleblog.PostImage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	images := make([]*simpleblog.PostImage, 0, len(r.imagesByPost[postID]))
	for _, imgID := range r.imagesByPost[postID] {
		if img, exists := r.images[imgID]; exists {
			imgCopy := *img
			images = append(images, &imgCopy)
		}
	}
	sort.Slice(images, func(i, j int) bool {
		return images[i].SortOrder < images[j].SortOrder
	})
	return images, nil
}

func (r *Repository) ListAllPostImages(ctx context.Context) ([]*simpleblog.PostImage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	images := make([]*simpleblog.PostImage, 0, len(r.images))
	for _, img := range r.images {
		imgCopy := *img
		images = append(images, &imgCopy)
	}
	return images, nil
}

func (r *Repository) UpdatePostImage(ctx context.Context, img *simpleblog.PostImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.images[img.ID]; !exists {
		return simpleblog.ErrImageNotFound
	}
	imgCopy := *img
	r.images[img.ID] = &imgCopy
	return nil
}

func (r *Repository) DeletePostImage(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	img, exists := r.images[id]
	if !exists {
		return simpleblog.ErrImageNotFound
	}
	delete(r.images, id)

	ids := r.imagesByPost[img.PostID]
	for i, imgID := range ids {
		if imgID == id {
			r.imagesByPost[img.PostID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

// Tag operations

func (r *Repository) CreateTag(ctx context.Context, tag *simpleblog.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tagsBySlug[tag.Slug]; exists {
		return simpleblog.ErrValidation
	}
	tagCopy := *tag
	r.tags[tag.ID] = &tagCopy
	r.tagsBySlug[tag.Slug] = tag.ID
	return nil
}

func (r *Repository) GetTag(ctx context.Context, id uuid.UUID) (*simpleblog.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tag, exists := r.tags[id]
	if !exists {
		return nil, simpleblog.ErrTagNotFound
	}
	tagCopy := *tag
	return &tagCopy, nil
}

func (r *Repository) GetTagBySlug(ctx context.Context, slug string) (*simpleblog.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.tagsBySlug[slug]
	if !exists {
		return nil, simpleblog.ErrTagNotFound
	}
	tagCopy := *r.tags[id]
	return &tagCopy, nil
}

func (r *Repository) ListTags(ctx context.Context) ([]*simpleblog.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]*simpleblog.Tag, 0, len(r.tags))
	for _, tag := range r.tags {
		tagCopy := *tag
		tags = append(tags, &tagCopy)
	}
	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Slug < tags[j].Slug
	})
	return tags, nil
}

func (r *Repository) DeleteTag(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tag, exists := r.tags[id]
	if !exists {
		return simpleblog.ErrTagNotFound
	}
	delete(r.tags, id)
	delete(r.tagsBySlug, tag.Slug)

	for postID, tagIDs := range r.postTags {
		for i, tagID := range tagIDs {
			if tagID == id {
				r.postTags[postID] = append(tagIDs[:i], tagIDs[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (r *Repository) ReplacePostTags(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.posts[postID]; !exists {
		return simpleblog.ErrPostNotFound
	}
	r.postTags[postID] = append([]uuid.UUID{}, tagIDs...)
	return nil
}

func (r *Repository) ListPostTags(ctx context.Context, postID uuid.UUID) ([]*simpleblog.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]*simpleblog.Tag, 0, len(r.postTags[postID]))
	for _, tagID := range r.postTags[postID] {
		if tag, exists := r.tags[tagID]; exists {
			tagCopy := *tag
			tags = append(tags, &tagCopy)
		}
	}
	return tags, nil
}

// Comment operations

func (r *Repository) CreateComment(ctx context.Context, comment *simpleblog.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.posts[comment.PostID]; !exists {
		return simpleblog.ErrPostNotFound
	}
	commentCopy := *comment
	r.comments[comment.ID] = &commentCopy
	return nil
}

func (r *Repository) GetComment(ctx context.Context, id uuid.UUID) (*simpleblog.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comment, exists := r.comments[id]
	if !exists {
		return nil, simpleblog.ErrCommentNotFound
	}
	commentCopy := *comment
	return &commentCopy, nil
}

func (r *Repository) ListComments(ctx context.Context, postID uuid.UUID) ([]*simpleblog.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var comments []*simpleblog.Comment
	for _, comment := range r.comments {
		if comment.PostID != postID {
			continue
		}
		commentCopy := *comment
		comments = append(comments, &commentCopy)
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

func (r *Repository) DeleteComment(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.comments[id]; !exists {
		return simpleblog.ErrCommentNotFound
	}
	delete(r.comments, id)
	delete(r.commentLikes, id)
	return nil
}

func (r *Repository) ToggleCommentLike(ctx context.Context, commentID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.comments[commentID]; !exists {
		return false, simpleblog.ErrCommentNotFound
	}
	likes, exists := r.commentLikes[commentID]
	if !exists {
		likes = make(map[uuid.UUID]struct{})
		r.commentLikes[commentID] = likes
	}
	if _, liked := likes[userID]; liked {
		delete(likes, userID)
		return false, nil
	}
	likes[userID] = struct{}{}
	return true, nil
}

// Profile operations

func (r *Repository) CreateProfile(ctx context.Context, profile *simpleblog.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	profileCopy := *profile
	r.profiles[profile.ID] = &profileCopy
	return nil
}

func (r *Repository) GetProfile(ctx context.Context, id uuid.UUID) (*simpleblog.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, exists := r.profiles[id]
	if !exists {
		return nil, simpleblog.ErrProfileNotFound
	}
	profileCopy := *profile
	return &profileCopy, nil
}

func (r *Repository) ListProfiles(ctx context.Context) ([]*simpleblog.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profiles := make([]*simpleblog.Profile, 0, len(r.profiles))
	for _, profile := range r.profiles {
		profileCopy := *profile
		profiles = append(profiles, &profileCopy)
	}
	return profiles, nil
}
