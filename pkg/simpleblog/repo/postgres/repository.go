package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements simpleblog.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) simpleblog.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) simpleblog.Repository {
	return &Repository{db: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("duplicate entry in %s", operation)
		case "23503": // foreign_key_violation
			return fmt.Errorf("referenced record not found in %s", operation)
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Post operations

const postColumns = `id, title, description, category, cover_image_url, status,
	scheduled_for, published_at, author_id, layout_variant, layout_hint,
	created_at, updated_at`

func scanPost(row pgx.Row) (*simpleblog.Post, error) {
	var p simpleblog.Post
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Category, &p.CoverImageURL,
		&p.Status, &p.ScheduledFor, &p.PublishedAt, &p.AuthorID,
		&p.LayoutVariant, &p.LayoutHint, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) CreatePost(ctx context.Context, post *simpleblog.Post) error {
	query := `
		INSERT INTO posts (
			id, title, description, category, cover_image_url, status,
			scheduled_for, published_at, author_id, layout_variant, layout_hint,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.Exec(ctx, query,
		post.ID, post.Title, post.Description, post.Category, post.CoverImageURL,
		post.Status, post.ScheduledFor, post.PublishedAt, post.AuthorID,
		post.LayoutVariant, post.LayoutHint, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create post", err)
	}
	return nil
}

func (r *Repository) GetPost(ctx context.Context, id uuid.UUID) (*simpleblog.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleblog.ErrPostNotFound
		}
		return nil, r.handlePostgresError("get post", err)
	}
	return post, nil
}

func (r *Repository) UpdatePost(ctx context.Context, post *simpleblog.Post) error {
	query := `
		UPDATE posts SET
			title = $2, description = $3, category = $4, cover_image_url = $5,
			status = $6, scheduled_for = $7, published_at = $8,
			layout_variant = $9, layout_hint = $10, updated_at = $11
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		post.ID, post.Title, post.Description, post.Category, post.CoverImageURL,
		post.Status, post.ScheduledFor, post.PublishedAt,
		post.LayoutVariant, post.LayoutHint, post.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update post", err)
	}
	if tag.RowsAffected() == 0 {
		return simpleblog.ErrPostNotFound
	}
	return nil
}

func (r *Repository) DeletePost(ctx context.Context, id uuid.UUID) error {
	// post_images, post_tags, comments and comment_likes cascade via FK.
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete post", err)
	}
	if tag.RowsAffected() == 0 {
		return simpleblog.ErrPostNotFound
	}
	return nil
}

func (r *Repository) ListPosts(ctx context.Context, filters simpleblog.PostListFilters) ([]*simpleblog.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE 1=1`
	args := []interface{}{}

	if filters.Status != nil {
		args = append(args, *filters.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filters.Search != nil && *filters.Search != "" {
		args = append(args, "%"+*filters.Search+"%")
		query += fmt.Sprintf(" AND title ILIKE $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	if filters.Limit != nil && *filters.Limit > 0 {
		args = append(args, *filters.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filters.Offset != nil && *filters.Offset > 0 {
		args = append(args, *filters.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.handlePostgresError("list posts", err)
	}
	defer rows.Close()

	var posts []*simpleblog.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, r.handlePostgresError("scan post", err)
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *Repository) ListPostsByCreation(ctx context.Context) ([]*simpleblog.Post, error) {
	return r.ListPosts(ctx, simpleblog.PostListFilters{})
}

func (r *Repository) ListScheduledDue(ctx context.Context, now time.Time) ([]*simpleblog.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts
		WHERE status = $1 AND scheduled_for <= $2
		ORDER BY scheduled_for ASC`

	rows, err := r.db.Query(ctx, query, simpleblog.PostStatusScheduled, now)
	if err != nil {
		return nil, r.handlePostgresError("list scheduled due", err)
	}
	defer rows.Close()

	var posts []*simpleblog.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, r.handlePostgresError("scan post", err)
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// UpsertPostLayouts applies all assignments in one statement so a crash
// cannot leave this batch partially applied.
func (r *Repository) UpsertPostLayouts(ctx context.Context, layouts []simpleblog.PostLayout) error {
	if len(layouts) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(layouts))
	variants := make([]string, len(layouts))
	hints := make([]string, len(layouts))
	for i, l := range layouts {
		ids[i] = l.PostID
		variants[i] = string(l.Variant)
		hints[i] = l.Hint
	}

	query := `
		UPDATE posts AS p SET
			layout_variant = v.variant,
			layout_hint = v.hint
		FROM (
			SELECT unnest($1::uuid[]) AS id,
			       unnest($2::text[]) AS variant,
			       unnest($3::text[]) AS hint
		) AS v
		WHERE p.id = v.id`

	if _, err := r.db.Exec(ctx, query, ids, variants, hints); err != nil {
		return r.handlePostgresError("upsert post layouts", err)
	}
	return nil
}

// Gallery image operations

const imageColumns = `id, post_id, url, sort_order, focal_point, alt_text, created_at`

func scanImage(row pgx.Row) (*simpleblog.PostImage, error) {
	var img simpleblog.PostImage
	err := row.Scan(&img.ID, &img.PostID, &img.URL, &img.SortOrder,
		&img.FocalPoint, &img.AltText, &img.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *Repository) CreatePostImage(ctx context.Context, img *simpleblog.PostImage) error {
	query := `
		INSERT INTO post_images (id, post_id, url, sort_order, focal_point, alt_text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		img.ID, img.PostID, img.URL, img.SortOrder, img.FocalPoint, img.AltText, img.CreatedAt)
	if err != nil {
		return r.handlePostgresError("create post image", err)
	}
	return nil
}

func (r *Repository) GetPostImage(ctx context.Context, id uuid.UUID) (*simpleblog.PostImage, error) {
	query := `SELECT ` + imageColumns + ` FROM post_images WHERE id = $1`

	img, err := scanImage(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleblog.ErrImageNotFound
		}
		return nil, r.handlePostgresError("get post image", err)
	}
	return img, nil
}

func (r *Repository) ListPostImages(ctx context.Context, postID uuid.UUID) ([]*simpleblog.PostImage, error) {
	query := `SELECT ` + imageColumns + ` FROM post_images WHERE post_id = $1 ORDER BY sort_order ASC`
	return r.queryImages(ctx, query, postID)
}

func (r *Repository) ListAllPostImages(ctx context.Context) ([]*simpleblog.PostImage, error) {
	query := `SELECT ` + imageColumns + ` FROM post_images`
	return r.queryImages(ctx, query)
}

func (r *Repository) queryImages(ctx context.Context, query string, args ...interface{}) ([]*simpleblog.PostImage, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.handlePostgresError("list post images", err)
	}
	defer rows.Close()

	var images []*simpleblog.PostImage
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, r.handlePostgresError("scan post image", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *Repository) UpdatePostImage(ctx context.Context, img *simpleblog.PostImage) error {
	query := `
		UPDATE post_images SET sort_order = $2, focal_point = $3, alt_text = $4
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, img.ID, img.SortOrder, img.FocalPoint, img.AltText)
	if err != nil {
		return r.handlePostgresError("update post image", err)
	}
	if tag.RowsAffected() == 0 {
		return simpleblog.ErrImageNotFound
	}
	return nil
}

func (r *Repository) DeletePostImage(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM post_images WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete post image", err)
	}
	if tag.RowsAffected() == 0 {
		return simpleblog.ErrImageNotFound
	}
	return nil
}

// Tag operations

func (r *Repository) CreateTag(ctx context.Context, t *simpleblog.Tag) error {
	query := `INSERT INTO tags (id, name, slug, created_at) VALUES ($1, $2, $3, $4)`

	if _, err := r.db.Exec(ctx, query, t.ID, t.Name, t.Slug, t.CreatedAt); err != nil {
		return r.handlePostgresError("create tag", err)
	}
	return nil
}

func (r *Repository) GetTag(ctx context.Context, id uuid.UUID) (*simpleblog.Tag, error) {
	return r.getTag(ctx, `SELECT id, name, slug, created_at FROM tags WHERE id = $1`, id)
}

func (r *Repository) GetTagBySlug(ctx context.Context, slug string) (*simpleblog.Tag, error) {
	return r.getTag(ctx, `SELECT id, name, slug, created_at FROM tags WHERE slug = $1`, slug)
}

func (r *Repository) getTag(ctx context.Context, query string, arg interface{}) (*simpleblog.Tag, error) {
	var t simpleblog.Tag
	err := r.db.QueryRow(ctx, query, arg).Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleblog.ErrTagNotFound
		}
		return nil, r.handlePostgresError("get tag", err)
	}
	return &t, nil
}

func (r *Repository) ListTags(ctx context.Context) ([]*simpleblog.Tag, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, slug, created_at FROM tags ORDER BY slug ASC`)
	if err != nil {
		return nil, r.handlePostgresError("list tags", err)
	}
	defer rows.Close()
	return scanTags(rows)
}

func scanTags(rows pgx.Rows) ([]*simpleblog.Tag, error) {
	var tags []*simpleblog.Tag
	for rows.Next() {
		var t simpleblog.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, &t)
	}
	return tags, rows.Err()
}

func (r *Repository) DeleteTag(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete tag", err)
	}
	if tag.RowsAffected() == 0 {
		return simpleblog.ErrTagNotFound
	}
	return nil
}

// ReplacePostTags recreates the associations wholesale: delete-all-then-insert,
// not a diff.
func (r *Repository) ReplacePostTags(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM post_tags WHERE post_id = $1`, postID); err != nil {
		return r.handlePostgresError("clear post tags", err)
	}
	for _, tagID := range tagIDs {
		_, err := r.db.Exec(ctx,
			`INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)`, postID, tagID)
		if err != nil {
			return r.handlePostgresError("insert post tag", err)
		}
	}
	return nil
}

func (r *Repository) ListPostTags(ctx context.Context, postID uuid.UUID) ([]*simpleblog.Tag, error) {
	query := `
		SELECT t.id, t.name, t.slug, t.created_at
		FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = $1
		ORDER BY t.slug ASC`

	rows, err := r.db.Query(ctx, query, postID)
	if err != nil {
		return nil, r.handlePostgresError("list post tags", err)
	}
	defer rows.Close()
	return scanTags(rows)
}

// Comment operations

func (r *Repository) CreateComment(ctx context.Context, c *simpleblog.Comment) error {
	query := `INSERT INTO comments (id, post_id, author_id, body, created_at) VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.db.Exec(ctx, query, c.ID, c.PostID, c.AuthorID, c.Body, c.CreatedAt); err != nil {
		return r.handlePostgresError("create comment", err)
	}
	return nil
}

func (r *Repository) GetComment(ctx context.Context, id uuid.UUID) (*simpleblog.Comment, error) {
	var c simpleblog.Comment
	err := r.db.QueryRow(ctx,
		`SELECT id, post_id, author_id, body, created_at FROM comments WHERE id = $1`, id).
		Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Body, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleblog.ErrCommentNotFound
		}
		return nil, r.handlePostgresError("get comment", err)
	}
	return &c, nil
}

func (r *Repository) ListComments(ctx context.Context, postID uuid.UUID) ([]*simpleblog.Comment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, post_id, author_id, body, created_at FROM comments
		 WHERE post_id = $1 ORDER BY created_at ASC`, postID)
	if err != nil {
		return nil, r.handlePostgresError("list comments", err)
	}
	defer rows.Close()

	var comments []*simpleblog.Comment
	for rows.Next() {
		var c simpleblog.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, r.handlePostgresError("scan comment", err)
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}

func (r *Repository) DeleteComment(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete comment", err)
	}
	if tag.RowsAffected() == 0 {
		return simpleblog.ErrCommentNotFound
	}
	return nil
}

// ToggleCommentLike deletes the like row if present, inserts it otherwise.
func (r *Repository) ToggleCommentLike(ctx context.Context, commentID, userID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM comment_likes WHERE comment_id = $1 AND user_id = $2`, commentID, userID)
	if err != nil {
		return false, r.handlePostgresError("toggle comment like", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO comment_likes (comment_id, user_id, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (comment_id, user_id) DO NOTHING`,
		commentID, userID, time.Now().UTC())
	if err != nil {
		return false, r.handlePostgresError("toggle comment like", err)
	}
	return true, nil
}

// Profile operations

func (r *Repository) GetProfile(ctx context.Context, id uuid.UUID) (*simpleblog.Profile, error) {
	var p simpleblog.Profile
	err := r.db.QueryRow(ctx,
		`SELECT id, display_name, avatar_url, created_at FROM profiles WHERE id = $1`, id).
		Scan(&p.ID, &p.DisplayName, &p.AvatarURL, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleblog.ErrProfileNotFound
		}
		return nil, r.handlePostgresError("get profile", err)
	}
	return &p, nil
}

func (r *Repository) ListProfiles(ctx context.Context) ([]*simpleblog.Profile, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, display_name, avatar_url, created_at FROM profiles`)
	if err != nil {
		return nil, r.handlePostgresError("list profiles", err)
	}
	defer rows.Close()

	var profiles []*simpleblog.Profile
	for rows.Next() {
		var p simpleblog.Profile
		if err := rows.Scan(&p.ID, &p.DisplayName, &p.AvatarURL, &p.CreatedAt); err != nil {
			return nil, r.handlePostgresError("scan profile", err)
		}
		profiles = append(profiles, &p)
	}
	return profiles, rows.Err()
}
