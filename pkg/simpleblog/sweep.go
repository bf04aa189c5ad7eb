package simpleblog

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Layout reassignment

// reassignAll recomputes layout for every post ordered by creation time
// descending and persists the assignments. Returns the computed assignments
// keyed by post so callers can enrich their own result.
func (s *service) reassignAll(ctx context.Context) (map[uuid.UUID]PostLayout, error) {
	posts, err := s.repository.ListPostsByCreation(ctx)
	if err != nil {
		return nil, err
	}
	layouts := assignAll(posts)

	byID := make(map[uuid.UUID]PostLayout, len(layouts))
	for _, l := range layouts {
		byID[l.PostID] = l
	}

	failed := s.applyLayouts(ctx, posts, layouts)
	for _, id := range failed {
		slog.Warn("layout update failed", "post_id", id)
	}
	return byID, nil
}

// applyLayouts persists assignments, preferring one bulk upsert. When the
// bulk statement fails it degrades to a per-row loop; rows updated before a
// mid-loop failure stay updated, which is accepted as self-healing since the
// next insert or admin reassignment recomputes from scratch.
func (s *service) applyLayouts(ctx context.Context, posts []*Post, layouts []PostLayout) []string {
	if err := s.repository.UpsertPostLayouts(ctx, layouts); err == nil {
		return nil
	} else {
		slog.Warn("bulk layout upsert failed, falling back to per-row updates", "error", err)
	}

	byID := make(map[uuid.UUID]*Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}

	var failed []string
	for _, l := range layouts {
		post, ok := byID[l.PostID]
		if !ok {
			continue
		}
		post.LayoutVariant = l.Variant
		post.LayoutHint = l.Hint
		if err := s.repository.UpdatePost(ctx, post); err != nil {
			failed = append(failed, l.PostID.String())
		}
	}
	return failed
}

// ReassignLayouts recomputes layout for all posts and reports the resulting
// variant distribution. Per-item failures are reported, not rolled back.
func (s *service) ReassignLayouts(ctx context.Context, actor Identity) (*LayoutDistribution, error) {
	if !actor.IsAdmin() {
		return nil, ErrNotAuthorized
	}

	posts, err := s.repository.ListPostsByCreation(ctx)
	if err != nil {
		return nil, err
	}
	layouts := assignAll(posts)

	dist := distributionOf(layouts)
	dist.FailedIDs = s.applyLayouts(ctx, posts, layouts)
	dist.Failed = len(dist.FailedIDs)
	dist.Updated = dist.Total - dist.Failed

	slog.Info("layout reassignment complete",
		"total", dist.Total, "updated", dist.Updated, "failed", dist.Failed)
	return dist, nil
}

// Publication sweep

// PublishDueScheduled promotes every scheduled post whose time has passed.
// It shares the promotion predicate and side effect with the read paths, so
// racing a lazy promotion is a no-op.
func (s *service) PublishDueScheduled(ctx context.Context) (*PublishSweepResult, error) {
	now := s.clock.Now()
	due, err := s.repository.ListScheduledDue(ctx, now)
	if err != nil {
		return nil, err
	}

	result := &PublishSweepResult{Due: len(due)}
	for _, post := range due {
		if !promoteIfDue(post, now) {
			continue
		}
		post.UpdatedAt = now
		if err := s.repository.UpdatePost(ctx, post); err != nil {
			result.Failed++
			result.FailedIDs = append(result.FailedIDs, post.ID.String())
			slog.Warn("sweep failed to publish post", "post_id", post.ID, "error", err)
			continue
		}
		result.Promoted++
		slog.Info("post published by sweep", "post_id", post.ID, "published_at", post.PublishedAt)
	}
	return result, nil
}

// RunScheduler runs the periodic auto-publish sweep until ctx is cancelled.
// The sweep exists only to cover posts nobody happens to read; reads promote
// lazily on their own.
func (s *service) RunScheduler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result, err := s.PublishDueScheduled(ctx)
			if err != nil {
				slog.Error("publish sweep failed", "error", err)
				continue
			}
			if result.Due > 0 {
				slog.Info("publish sweep", "due", result.Due,
					"promoted", result.Promoted, "failed", result.Failed)
			}
		}
	}
}

// Orphan sweep

// SweepOrphans diffs the storage listing against every URL referenced from
// posts, gallery images and profile avatars, and removes anything
// unreferenced. Deletion failures are counted and logged, never fatal.
func (s *service) SweepOrphans(ctx context.Context, actor Identity) (*OrphanSweepResult, error) {
	if !actor.IsAdmin() {
		return nil, ErrNotAuthorized
	}
	if s.assets.store == nil {
		return nil, ErrNoBlobStore
	}

	referenced := make(map[string]struct{})

	posts, err := s.repository.ListPostsByCreation(ctx)
	if err != nil {
		return nil, err
	}
	for _, post := range posts {
		if post.CoverImageURL != nil {
			referenced[*post.CoverImageURL] = struct{}{}
		}
	}

	images, err := s.repository.ListAllPostImages(ctx)
	if err != nil {
		return nil, err
	}
	for _, img := range images {
		referenced[img.URL] = struct{}{}
	}

	profiles, err := s.repository.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	for _, profile := range profiles {
		if profile.AvatarURL != nil {
			referenced[*profile.AvatarURL] = struct{}{}
		}
	}

	keys, err := s.assets.store.List(ctx, "")
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}

	result := &OrphanSweepResult{Listed: len(keys)}
	for _, key := range keys {
		if _, ok := referenced[s.assets.store.URLFor(key)]; ok {
			result.Referenced++
			continue
		}
		if err := s.assets.store.Delete(ctx, key); err != nil {
			result.Failed++
			result.FailedKeys = append(result.FailedKeys, key)
			slog.Warn("orphan delete failed", "key", key, "error", err)
			continue
		}
		result.Deleted++
		slog.Info("orphan object removed", "key", key)
	}
	return result, nil
}
