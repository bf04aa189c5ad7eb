package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

func newPost(title string, createdAt time.Time) *simpleblog.Post {
	return &simpleblog.Post{
		ID:        uuid.New(),
		Title:     title,
		Status:    simpleblog.PostStatusDraft,
		AuthorID:  uuid.New(),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestPostCRUD(t *testing.T) {
	repo := New()
	ctx := context.Background()

	post := newPost("first", time.Now())
	require.NoError(t, repo.CreatePost(ctx, post))

	got, err := repo.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Title, got.Title)

	// The repository stores copies; mutating a returned post does not leak.
	got.Title = "mutated"
	again, err := repo.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", again.Title)

	post.Title = "updated"
	require.NoError(t, repo.UpdatePost(ctx, post))
	got, err = repo.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Title)

	require.NoError(t, repo.DeletePost(ctx, post.ID))
	_, err = repo.GetPost(ctx, post.ID)
	assert.ErrorIs(t, err, simpleblog.ErrPostNotFound)

	assert.ErrorIs(t, repo.UpdatePost(ctx, post), simpleblog.ErrPostNotFound)
	assert.ErrorIs(t, repo.DeletePost(ctx, post.ID), simpleblog.ErrPostNotFound)
}

func TestListPostsFilters(t *testing.T) {
	repo := New()
	ctx := context.Background()
	base := time.Now()

	older := newPost("City Lights", base.Add(-2*time.Hour))
	newer := newPost("Mountain Trip", base.Add(-time.Hour))
	published := newPost("Sea Breeze", base)
	published.Status = simpleblog.PostStatusPublished
	for _, p := range []*simpleblog.Post{older, newer, published} {
		require.NoError(t, repo.CreatePost(ctx, p))
	}

	t.Run("newest first", func(t *testing.T) {
		posts, err := repo.ListPosts(ctx, simpleblog.PostListFilters{})
		require.NoError(t, err)
		require.Len(t, posts, 3)
		assert.Equal(t, published.ID, posts[0].ID)
		assert.Equal(t, older.ID, posts[2].ID)
	})

	t.Run("status filter", func(t *testing.T) {
		status := simpleblog.PostStatusPublished
		posts, err := repo.ListPosts(ctx, simpleblog.PostListFilters{Status: &status})
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, published.ID, posts[0].ID)
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		search := "mountain"
		posts, err := repo.ListPosts(ctx, simpleblog.PostListFilters{Search: &search})
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, newer.ID, posts[0].ID)
	})

	t.Run("offset and limit", func(t *testing.T) {
		offset, limit := 1, 1
		posts, err := repo.ListPosts(ctx, simpleblog.PostListFilters{Offset: &offset, Limit: &limit})
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, newer.ID, posts[0].ID)
	})

	t.Run("offset past the end", func(t *testing.T) {
		offset := 10
		posts, err := repo.ListPosts(ctx, simpleblog.PostListFilters{Offset: &offset})
		require.NoError(t, err)
		assert.Empty(t, posts)
	})
}

func TestListScheduledDue(t *testing.T) {
	repo := New()
	ctx := context.Background()
	now := time.Now().UTC()

	due := newPost("due", now.Add(-time.Hour))
	due.Status = simpleblog.PostStatusScheduled
	at := now.Add(-time.Minute)
	due.ScheduledFor = &at

	exactly := newPost("exactly", now.Add(-time.Hour))
	exactly.Status = simpleblog.PostStatusScheduled
	exactlyAt := now
	exactly.ScheduledFor = &exactlyAt

	future := newPost("future", now.Add(-time.Hour))
	future.Status = simpleblog.PostStatusScheduled
	futureAt := now.Add(time.Hour)
	future.ScheduledFor = &futureAt

	draft := newPost("draft", now)

	for _, p := range []*simpleblog.Post{due, exactly, future, draft} {
		require.NoError(t, repo.CreatePost(ctx, p))
	}

	got, err := repo.ListScheduledDue(ctx, now)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Soonest first.
	assert.Equal(t, due.ID, got[0].ID)
	assert.Equal(t, exactly.ID, got[1].ID)
}

func TestUpsertPostLayouts(t *testing.T) {
	repo := New()
	ctx := context.Background()

	post := newPost("laid out", time.Now())
	require.NoError(t, repo.CreatePost(ctx, post))

	layouts := []simpleblog.PostLayout{
		{PostID: post.ID, Variant: simpleblog.LayoutWideHorizontal, Hint: simpleblog.LayoutWideHorizontal.GridHint()},
		// Unknown post ids are skipped, not errors.
		{PostID: uuid.New(), Variant: simpleblog.LayoutSquare},
	}
	require.NoError(t, repo.UpsertPostLayouts(ctx, layouts))

	got, err := repo.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, simpleblog.LayoutWideHorizontal, got.LayoutVariant)
	assert.Equal(t, "col-span-2 row-span-1", got.LayoutHint)
}

func TestImageOwnershipAndOrdering(t *testing.T) {
	repo := New()
	ctx := context.Background()

	post := newPost("gallery", time.Now())
	require.NoError(t, repo.CreatePost(ctx, post))

	orphan := &simpleblog.PostImage{ID: uuid.New(), PostID: uuid.New(), URL: "memory://x"}
	assert.ErrorIs(t, repo.CreatePostImage(ctx, orphan), simpleblog.ErrPostNotFound)

	var ids []uuid.UUID
	for i := 2; i >= 0; i-- {
		img := &simpleblog.PostImage{
			ID:        uuid.New(),
			PostID:    post.ID,
			URL:       "memory://img",
			SortOrder: i,
		}
		require.NoError(t, repo.CreatePostImage(ctx, img))
		ids = append(ids, img.ID)
	}

	images, err := repo.ListPostImages(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, images, 3)
	for i, img := range images {
		assert.Equal(t, i, img.SortOrder)
	}

	require.NoError(t, repo.DeletePostImage(ctx, ids[0]))
	images, err = repo.ListPostImages(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, images, 2)

	all, err := repo.ListAllPostImages(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeletePostCascades(t *testing.T) {
	repo := New()
	ctx := context.Background()

	post := newPost("cascade", time.Now())
	require.NoError(t, repo.CreatePost(ctx, post))

	img := &simpleblog.PostImage{ID: uuid.New(), PostID: post.ID, URL: "memory://img"}
	require.NoError(t, repo.CreatePostImage(ctx, img))

	tag := &simpleblog.Tag{ID: uuid.New(), Name: "travel", Slug: "travel"}
	require.NoError(t, repo.CreateTag(ctx, tag))
	require.NoError(t, repo.ReplacePostTags(ctx, post.ID, []uuid.UUID{tag.ID}))

	comment := &simpleblog.Comment{ID: uuid.New(), PostID: post.ID, AuthorID: uuid.New(), Body: "hi"}
	require.NoError(t, repo.CreateComment(ctx, comment))
	_, err := repo.ToggleCommentLike(ctx, comment.ID, uuid.New())
	require.NoError(t, err)

	require.NoError(t, repo.DeletePost(ctx, post.ID))

	_, err = repo.GetPostImage(ctx, img.ID)
	assert.ErrorIs(t, err, simpleblog.ErrImageNotFound)
	_, err = repo.GetComment(ctx, comment.ID)
	assert.ErrorIs(t, err, simpleblog.ErrCommentNotFound)

	// Tags are shared: the tag itself survives.
	_, err = repo.GetTag(ctx, tag.ID)
	assert.NoError(t, err)
}

func TestTagsBySlug(t *testing.T) {
	repo := New()
	ctx := context.Background()

	tag := &simpleblog.Tag{ID: uuid.New(), Name: "Travel", Slug: "travel"}
	require.NoError(t, repo.CreateTag(ctx, tag))

	dup := &simpleblog.Tag{ID: uuid.New(), Name: "travel", Slug: "travel"}
	assert.ErrorIs(t, repo.CreateTag(ctx, dup), simpleblog.ErrValidation)

	got, err := repo.GetTagBySlug(ctx, "travel")
	require.NoError(t, err)
	assert.Equal(t, tag.ID, got.ID)

	_, err = repo.GetTagBySlug(ctx, "missing")
	assert.ErrorIs(t, err, simpleblog.ErrTagNotFound)

	require.NoError(t, repo.DeleteTag(ctx, tag.ID))
	_, err = repo.GetTagBySlug(ctx, "travel")
	assert.ErrorIs(t, err, simpleblog.ErrTagNotFound)
}

func TestReplacePostTagsWholesale(t *testing.T) {
	repo := New()
	ctx := context.Background()

	post := newPost("tagged", time.Now())
	require.NoError(t, repo.CreatePost(ctx, post))

	a := &simpleblog.Tag{ID: uuid.New(), Name: "a", Slug: "a"}
	b := &simpleblog.Tag{ID: uuid.New(), Name: "b", Slug: "b"}
	require.NoError(t, repo.CreateTag(ctx, a))
	require.NoError(t, repo.CreateTag(ctx, b))

	require.NoError(t, repo.ReplacePostTags(ctx, post.ID, []uuid.UUID{a.ID}))
	tags, err := repo.ListPostTags(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, a.ID, tags[0].ID)

	require.NoError(t, repo.ReplacePostTags(ctx, post.ID, []uuid.UUID{b.ID}))
	tags, err = repo.ListPostTags(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, b.ID, tags[0].ID)

	require.NoError(t, repo.ReplacePostTags(ctx, post.ID, nil))
	tags, err = repo.ListPostTags(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestToggleCommentLike(t *testing.T) {
	repo := New()
	ctx := context.Background()

	post := newPost("liked", time.Now())
	require.NoError(t, repo.CreatePost(ctx, post))
	comment := &simpleblog.Comment{ID: uuid.New(), PostID: post.ID, AuthorID: uuid.New(), Body: "hi"}
	require.NoError(t, repo.CreateComment(ctx, comment))

	user := uuid.New()
	liked, err := repo.ToggleCommentLike(ctx, comment.ID, user)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = repo.ToggleCommentLike(ctx, comment.ID, user)
	require.NoError(t, err)
	assert.False(t, liked)

	_, err = repo.ToggleCommentLike(ctx, uuid.New(), user)
	assert.ErrorIs(t, err, simpleblog.ErrCommentNotFound)
}

func TestProfiles(t *testing.T) {
	repo := New()
	ctx := context.Background()

	avatar := "memory://avatars/a.jpg"
	profile := &simpleblog.Profile{ID: uuid.New(), DisplayName: "Casey", AvatarURL: &avatar}
	require.NoError(t, repo.CreateProfile(ctx, profile))

	got, err := repo.GetProfile(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "Casey", got.DisplayName)

	profiles, err := repo.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, 1)

	_, err = repo.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, simpleblog.ErrProfileNotFound)
}
