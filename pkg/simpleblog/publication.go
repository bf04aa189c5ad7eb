package simpleblog

import (
	"fmt"
	"strings"
	"time"
)

// placeholderTitle substitutes for an empty title on draft and scheduled
// posts. Published posts must carry a real title.
const placeholderTitle = "Untitled post"

// applyTransition moves a post to the target status, resolving timestamps
// against the supplied now. The post is mutated only on success.
func applyTransition(post *Post, target PostStatus, scheduledFor *time.Time, now time.Time) error {
	switch target {
	case PostStatusDraft:
		post.Status = PostStatusDraft
		post.ScheduledFor = nil
		post.PublishedAt = nil

	case PostStatusScheduled:
		if scheduledFor == nil || scheduledFor.IsZero() {
			return fmt.Errorf("%w: scheduled_for is required", ErrInvalidSchedule)
		}
		if !scheduledFor.After(now) {
			return fmt.Errorf("%w: %s is not after %s", ErrPastSchedule,
				scheduledFor.UTC().Format(time.RFC3339), now.UTC().Format(time.RFC3339))
		}
		at := scheduledFor.UTC()
		post.Status = PostStatusScheduled
		post.ScheduledFor = &at
		post.PublishedAt = nil

	case PostStatusPublished:
		if strings.TrimSpace(post.Title) == "" {
			return ErrTitleRequired
		}
		publish(post, now)

	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, target)
	}

	if post.Status != PostStatusPublished && strings.TrimSpace(post.Title) == "" {
		post.Title = placeholderTitle
	}
	return nil
}

// dueForPublish is the single promotion predicate shared by single reads,
// list reads and the periodic sweep.
func dueForPublish(post *Post, now time.Time) bool {
	return post.Status == PostStatusScheduled &&
		post.ScheduledFor != nil &&
		!post.ScheduledFor.After(now)
}

// promoteIfDue lazily promotes a due scheduled post to published and reports
// whether the post changed. Promoting an already-published post is a no-op,
// so a read racing the periodic sweep is harmless.
func promoteIfDue(post *Post, now time.Time) bool {
	if !dueForPublish(post, now) {
		return false
	}
	publish(post, now)
	return true
}

// publish applies the shared publish side effect: stamp published_at on
// first publish only, clear the schedule.
func publish(post *Post, now time.Time) {
	post.Status = PostStatusPublished
	if post.PublishedAt == nil {
		at := now.UTC()
		post.PublishedAt = &at
	}
	post.ScheduledFor = nil
}
