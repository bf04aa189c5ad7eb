package simpleblog

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus is the domain type for post lifecycle states.
type PostStatus string

// Post status constants (typed).
const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPublished PostStatus = "published"
)

// IsValid reports whether the status is one of the known lifecycle states.
func (s PostStatus) IsValid() bool {
	switch s {
	case PostStatusDraft, PostStatusScheduled, PostStatusPublished:
		return true
	}
	return false
}

// LayoutVariant is the presentation variant assigned to a post for grid
// rendering.
type LayoutVariant string

// Layout variant constants (typed).
const (
	LayoutWideHorizontal LayoutVariant = "wide-horizontal"
	LayoutTallVertical   LayoutVariant = "tall-vertical"
	LayoutSquare         LayoutVariant = "square"
)

// GridHint returns the grid-span hint corresponding to the variant.
func (v LayoutVariant) GridHint() string {
	switch v {
	case LayoutWideHorizontal:
		return "col-span-2 row-span-1"
	case LayoutTallVertical:
		return "col-span-1 row-span-2"
	default:
		return "col-span-1 row-span-1"
	}
}

// Post represents a blog post.
//
// ScheduledFor is set iff the post is scheduled. PublishedAt is set once the
// post first becomes published and is never reset by a republish. Entering
// draft clears both.
type Post struct {
	ID            uuid.UUID     `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description,omitempty"`
	Category      string        `json:"category,omitempty"`
	CoverImageURL *string       `json:"cover_image_url,omitempty"`
	Status        PostStatus    `json:"status"`
	ScheduledFor  *time.Time    `json:"scheduled_for,omitempty"`
	PublishedAt   *time.Time    `json:"published_at,omitempty"`
	AuthorID      uuid.UUID     `json:"author_id"`
	LayoutVariant LayoutVariant `json:"layout_variant,omitempty"`
	LayoutHint    string        `json:"layout_hint,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// PostImage is a gallery image owned by exactly one post. Sort orders within
// a post form a dense 0..n-1 sequence after any mutation.
type PostImage struct {
	ID         uuid.UUID `json:"id"`
	PostID     uuid.UUID `json:"post_id"`
	URL        string    `json:"url"`
	SortOrder  int       `json:"sort_order"`
	FocalPoint *string   `json:"focal_point,omitempty"`
	AltText    *string   `json:"alt_text,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Tag is shared across posts; its lifetime is independent of any one post.
type Tag struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is owned by a post.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile is an author profile. Avatar URLs count as referenced assets for
// the orphan sweep.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Identity is the caller identity resolved once per request by the token
// verifier.
type Identity struct {
	UserID uuid.UUID `json:"user_id"`
	Role   *string   `json:"role,omitempty"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role != nil && *i.Role == "admin"
}

// PostLayout is a single row of a bulk layout upsert.
type PostLayout struct {
	PostID  uuid.UUID     `json:"post_id"`
	Variant LayoutVariant `json:"variant"`
	Hint    string        `json:"hint"`
}

// PostListFilters defines filtering options for listing posts.
type PostListFilters struct {
	Status *PostStatus
	Search *string
	Limit  *int
	Offset *int
}

// LayoutDistribution reports the variant distribution after a full layout
// reassignment. Percent values are in [0,100].
type LayoutDistribution struct {
	Total     int                       `json:"total"`
	Updated   int                       `json:"updated"`
	Failed    int                       `json:"failed"`
	FailedIDs []string                  `json:"failed_ids,omitempty"`
	ByVariant map[LayoutVariant]int     `json:"by_variant"`
	Percent   map[LayoutVariant]float64 `json:"percent"`
}

// PublishSweepResult reports the outcome of a scheduled-post sweep.
type PublishSweepResult struct {
	Due       int      `json:"due"`
	Promoted  int      `json:"promoted"`
	Failed    int      `json:"failed"`
	FailedIDs []string `json:"failed_ids,omitempty"`
}

// OrphanSweepResult reports the outcome of a storage orphan sweep.
type OrphanSweepResult struct {
	Listed     int      `json:"listed"`
	Referenced int      `json:"referenced"`
	Deleted    int      `json:"deleted"`
	Failed     int      `json:"failed"`
	FailedKeys []string `json:"failed_keys,omitempty"`
}

// UploadOutcome is the per-file result of a multi-file image upload. One
// file failing never aborts the others.
type UploadOutcome struct {
	FileName  string     `json:"file_name"`
	URL       string     `json:"url,omitempty"`
	Converted bool       `json:"converted"`
	Image     *PostImage `json:"image,omitempty"`
	Error     string     `json:"error,omitempty"`
}
