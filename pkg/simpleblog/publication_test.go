package simpleblog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyTransitionDraft(t *testing.T) {
	now := time.Now().UTC()
	scheduled := now.Add(time.Hour)
	published := now.Add(-time.Hour)
	post := &Post{
		Title:        "hello",
		Status:       PostStatusPublished,
		ScheduledFor: &scheduled,
		PublishedAt:  &published,
	}

	require.NoError(t, applyTransition(post, PostStatusDraft, nil, now))
	assert.Equal(t, PostStatusDraft, post.Status)
	assert.Nil(t, post.ScheduledFor)
	assert.Nil(t, post.PublishedAt)
}

func TestApplyTransitionScheduled(t *testing.T) {
	now := time.Now().UTC()

	t.Run("future time succeeds", func(t *testing.T) {
		at := now.Add(2 * time.Hour)
		post := &Post{Title: "hello"}
		require.NoError(t, applyTransition(post, PostStatusScheduled, &at, now))
		assert.Equal(t, PostStatusScheduled, post.Status)
		require.NotNil(t, post.ScheduledFor)
		assert.True(t, post.ScheduledFor.Equal(at))
		assert.Nil(t, post.PublishedAt)
	})

	t.Run("missing time fails", func(t *testing.T) {
		post := &Post{Title: "hello"}
		err := applyTransition(post, PostStatusScheduled, nil, now)
		assert.ErrorIs(t, err, ErrInvalidSchedule)
	})

	t.Run("past time fails", func(t *testing.T) {
		at := now.Add(-time.Minute)
		post := &Post{Title: "hello"}
		err := applyTransition(post, PostStatusScheduled, &at, now)
		assert.ErrorIs(t, err, ErrPastSchedule)
	})

	t.Run("exactly now fails", func(t *testing.T) {
		at := now
		post := &Post{Title: "hello"}
		err := applyTransition(post, PostStatusScheduled, &at, now)
		assert.ErrorIs(t, err, ErrPastSchedule)
	})

	t.Run("rescheduling clears published_at", func(t *testing.T) {
		published := now.Add(-time.Hour)
		at := now.Add(time.Hour)
		post := &Post{Title: "hello", Status: PostStatusPublished, PublishedAt: &published}
		require.NoError(t, applyTransition(post, PostStatusScheduled, &at, now))
		assert.Nil(t, post.PublishedAt)
	})
}

func TestApplyTransitionPublished(t *testing.T) {
	now := time.Now().UTC()

	t.Run("with title succeeds", func(t *testing.T) {
		post := &Post{Title: "hello"}
		require.NoError(t, applyTransition(post, PostStatusPublished, nil, now))
		assert.Equal(t, PostStatusPublished, post.Status)
		require.NotNil(t, post.PublishedAt)
		assert.True(t, post.PublishedAt.Equal(now))
		assert.Nil(t, post.ScheduledFor)
	})

	t.Run("without title fails", func(t *testing.T) {
		post := &Post{Title: "   "}
		err := applyTransition(post, PostStatusPublished, nil, now)
		assert.ErrorIs(t, err, ErrTitleRequired)
		assert.NotEqual(t, PostStatusPublished, post.Status)
	})

	t.Run("republish keeps original published_at", func(t *testing.T) {
		first := now.Add(-24 * time.Hour)
		post := &Post{Title: "hello", Status: PostStatusDraft, PublishedAt: &first}
		require.NoError(t, applyTransition(post, PostStatusPublished, nil, now))
		require.NotNil(t, post.PublishedAt)
		assert.True(t, post.PublishedAt.Equal(first))
	})
}

func TestApplyTransitionPlaceholderTitle(t *testing.T) {
	now := time.Now().UTC()

	post := &Post{}
	require.NoError(t, applyTransition(post, PostStatusDraft, nil, now))
	assert.Equal(t, placeholderTitle, post.Title)

	at := now.Add(time.Hour)
	post = &Post{Title: "  "}
	require.NoError(t, applyTransition(post, PostStatusScheduled, &at, now))
	assert.Equal(t, placeholderTitle, post.Title)
}

func TestApplyTransitionInvalidStatus(t *testing.T) {
	post := &Post{Title: "hello"}
	err := applyTransition(post, PostStatus("archived"), nil, time.Now())
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestDueForPublish(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Minute)
	exact := now
	future := now.Add(time.Minute)

	tests := []struct {
		name string
		post *Post
		due  bool
	}{
		{"scheduled past is due", &Post{Status: PostStatusScheduled, ScheduledFor: &past}, true},
		{"scheduled exactly now is due", &Post{Status: PostStatusScheduled, ScheduledFor: &exact}, true},
		{"scheduled future is not due", &Post{Status: PostStatusScheduled, ScheduledFor: &future}, false},
		{"draft is never due", &Post{Status: PostStatusDraft, ScheduledFor: &past}, false},
		{"published is never due", &Post{Status: PostStatusPublished, ScheduledFor: &past}, false},
		{"scheduled without time is not due", &Post{Status: PostStatusScheduled}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.due, dueForPublish(tt.post, now))
		})
	}
}

func TestPromoteIfDue(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Minute)

	post := &Post{Status: PostStatusScheduled, ScheduledFor: &past}
	require.True(t, promoteIfDue(post, now))
	assert.Equal(t, PostStatusPublished, post.Status)
	assert.Nil(t, post.ScheduledFor)
	require.NotNil(t, post.PublishedAt)
	firstPublished := *post.PublishedAt

	// Promotion is idempotent: a second call changes nothing.
	assert.False(t, promoteIfDue(post, now.Add(time.Hour)))
	assert.Equal(t, PostStatusPublished, post.Status)
	assert.True(t, post.PublishedAt.Equal(firstPublished))
}
