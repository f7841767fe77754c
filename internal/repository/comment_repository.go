package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/domain"
)

// CommentRecord is the storage shape of one comment row. The author block is
// denormalized onto the row (the platform's user directory is a separate
// system); AuthorAvatar holds an object key, resolved to a URL at read time.
type CommentRecord struct {
	ID              domain.ID  `db:"comment_id"`
	PostID          domain.ID  `db:"post_id"`
	AuthorID        domain.ID  `db:"author_id"`
	AuthorName      string     `db:"author_name"`
	AuthorAvatar    *string    `db:"author_avatar"`
	AuthorEmail     *string    `db:"author_email"`
	ParentCommentID *domain.ID `db:"parent_comment_id"`
	Content         string     `db:"content"`
	Likes           int        `db:"likes"`
	LikedByViewer   bool       `db:"liked_by_viewer"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

type CommentRepository interface {
	Create(ctx context.Context, rec *CommentRecord) error
	GetByID(ctx context.Context, id domain.ID) (*CommentRecord, error)
	Update(ctx context.Context, id domain.ID, content string) error
	// SoftDelete marks the comment and everything transitively nested under
	// it as deleted.
	SoftDelete(ctx context.Context, id domain.ID) error
	// ListByPost returns every live comment of a post, flat, oldest first,
	// with like totals and the viewer's like state joined in.
	ListByPost(ctx context.Context, postID, viewerID domain.ID) ([]CommentRecord, error)
	// ToggleLike flips the viewer's like row and returns the new state.
	ToggleLike(ctx context.Context, commentID, userID domain.ID) (liked bool, likes int, err error)
}

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, rec *CommentRecord) error {
	query := `
		INSERT INTO comments (comment_id, post_id, author_id, author_name, author_avatar, author_email, parent_comment_id, content)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		rec.ID, rec.PostID, rec.AuthorID, rec.AuthorName, rec.AuthorAvatar, rec.AuthorEmail, rec.ParentCommentID, rec.Content,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
}

func (r *commentRepository) GetByID(ctx context.Context, id domain.ID) (*CommentRecord, error) {
	var rec CommentRecord
	query := `
		SELECT c.comment_id, c.post_id, c.author_id, c.author_name, c.author_avatar, c.author_email,
		       c.parent_comment_id, c.content, c.created_at, c.updated_at,
		       (SELECT COUNT(*) FROM comment_likes l WHERE l.comment_id = c.comment_id) AS likes,
		       FALSE AS liked_by_viewer
		FROM comments c
		WHERE c.comment_id = $1 AND c.deleted_at IS NULL`

	err := r.db.GetContext(ctx, &rec, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *commentRepository) Update(ctx context.Context, id domain.ID, content string) error {
	query := `
		UPDATE comments
		SET content = $2, updated_at = NOW()
		WHERE comment_id = $1 AND deleted_at IS NULL`

	_, err := r.db.ExecContext(ctx, query, id, content)
	return err
}

func (r *commentRepository) SoftDelete(ctx context.Context, id domain.ID) error {
	query := `
		WITH RECURSIVE doomed AS (
			SELECT comment_id FROM comments WHERE comment_id = $1
			UNION ALL
			SELECT c.comment_id
			FROM comments c
			INNER JOIN doomed d ON c.parent_comment_id = d.comment_id
		)
		UPDATE comments SET deleted_at = NOW()
		WHERE comment_id IN (SELECT comment_id FROM doomed) AND deleted_at IS NULL`

	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *commentRepository) ListByPost(ctx context.Context, postID, viewerID domain.ID) ([]CommentRecord, error) {
	query := `
		SELECT c.comment_id, c.post_id, c.author_id, c.author_name, c.author_avatar, c.author_email,
		       c.parent_comment_id, c.content, c.created_at, c.updated_at,
		       (SELECT COUNT(*) FROM comment_likes l WHERE l.comment_id = c.comment_id) AS likes,
		       EXISTS (
		           SELECT 1 FROM comment_likes l
		           WHERE l.comment_id = c.comment_id AND l.user_id = $2
		       ) AS liked_by_viewer
		FROM comments c
		WHERE c.post_id = $1 AND c.deleted_at IS NULL
		ORDER BY c.created_at ASC`

	var records []CommentRecord
	if err := r.db.SelectContext(ctx, &records, query, postID, nullableID(viewerID)); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *commentRepository) ToggleLike(ctx context.Context, commentID, userID domain.ID) (bool, int, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM comment_likes WHERE comment_id = $1 AND user_id = $2`,
		commentID, userID,
	)
	if err != nil {
		return false, 0, err
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return false, 0, err
	}

	liked := removed == 0
	if liked {
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO comment_likes (comment_id, user_id)
			 SELECT $1, $2 WHERE EXISTS (
			     SELECT 1 FROM comments WHERE comment_id = $1 AND deleted_at IS NULL
			 )
			 ON CONFLICT (comment_id, user_id) DO NOTHING`,
			commentID, userID,
		)
		if err != nil {
			return false, 0, err
		}
	}

	var likes int
	err = r.db.GetContext(ctx, &likes,
		`SELECT COUNT(*) FROM comment_likes WHERE comment_id = $1`, commentID,
	)
	return liked, likes, err
}

// nullableID keeps a zero viewer id out of the like-state subquery.
func nullableID(id domain.ID) any {
	if id.IsZero() {
		return nil
	}
	return id
}
