package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/bionicotaku/lingo-services-media/internal/models/po"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CommentRepository is the write-side store for media.comments.
type CommentRepository struct {
	db  *pgxpool.Pool
	log *log.Helper
}

// NewCommentRepository constructs the repository. Injected via Wire.
func NewCommentRepository(db *pgxpool.Pool, logger log.Logger) *CommentRepository {
	return &CommentRepository{
		db:  db,
		log: log.NewHelper(logger),
	}
}

// Create inserts a comment and returns it with database timestamps.
func (r *CommentRepository) Create(ctx context.Context, sess txmanager.Session, c *po.Comment) (*po.Comment, error) {
	const query = `
		INSERT INTO media.comments (comment_id, video_id, owner_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := pick(r.db, sess).QueryRow(ctx, query,
		c.CommentID, c.VideoID, c.OwnerID, c.Content,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	r.log.WithContext(ctx).Infof("created comment: comment_id=%s video_id=%s", c.CommentID, c.VideoID)
	return c, nil
}

// FindByID returns the comment row, ErrCommentNotFound when absent.
func (r *CommentRepository) FindByID(ctx context.Context, sess txmanager.Session, commentID uuid.UUID) (*po.Comment, error) {
	const query = `
		SELECT comment_id, video_id, owner_id, content, created_at, updated_at
		FROM media.comments
		WHERE comment_id = $1
	`

	var c po.Comment
	err := pick(r.db, sess).QueryRow(ctx, query, commentID).Scan(
		&c.CommentID, &c.VideoID, &c.OwnerID, &c.Content, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("query comment by id: %w", err)
	}
	return &c, nil
}

// UpdateContent replaces the comment text and returns the updated row.
func (r *CommentRepository) UpdateContent(ctx context.Context, sess txmanager.Session, commentID uuid.UUID, content string) (*po.Comment, error) {
	const query = `
		UPDATE media.comments
		SET content = $2, updated_at = now()
		WHERE comment_id = $1
		RETURNING comment_id, video_id, owner_id, content, created_at, updated_at
	`

	var c po.Comment
	err := pick(r.db, sess).QueryRow(ctx, query, commentID, content).Scan(
		&c.CommentID, &c.VideoID, &c.OwnerID, &c.Content, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return &c, nil
}

// Delete removes one comment row.
func (r *CommentRepository) Delete(ctx context.Context, sess txmanager.Session, commentID uuid.UUID) error {
	const query = `DELETE FROM media.comments WHERE comment_id = $1`

	tag, err := pick(r.db, sess).Exec(ctx, query, commentID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// RemoveAllForVideo cascades comment deletion when a video is removed.
func (r *CommentRepository) RemoveAllForVideo(ctx context.Context, sess txmanager.Session, videoID uuid.UUID) (int64, error) {
	const query = `DELETE FROM media.comments WHERE video_id = $1`

	tag, err := pick(r.db, sess).Exec(ctx, query, videoID)
	if err != nil {
		return 0, fmt.Errorf("remove comments for video: %w", err)
	}
	return tag.RowsAffected(), nil
}
