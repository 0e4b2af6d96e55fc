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

// VideoRepository is the write-side store for media.videos.
type VideoRepository struct {
	db  *pgxpool.Pool
	log *log.Helper
}

// NewVideoRepository constructs the repository. Injected via Wire.
func NewVideoRepository(db *pgxpool.Pool, logger log.Logger) *VideoRepository {
	return &VideoRepository{
		db:  db,
		log: log.NewHelper(logger),
	}
}

// CreateVideoInput carries the fields persisted when a video is published.
// Both blob references must already be durable; the insert is the pipeline's
// final side effect.
type CreateVideoInput struct {
	VideoID         uuid.UUID
	OwnerID         uuid.UUID
	Title           string
	Description     string
	MediaURL        string
	MediaObject     string
	ThumbnailURL    string
	ThumbnailObject string
	DurationSeconds float64
}

// UpdateVideoDetailsInput carries the owner-mutable fields. Nil means "leave
// unchanged".
type UpdateVideoDetailsInput struct {
	VideoID         uuid.UUID
	Title           *string
	Description     *string
	ThumbnailURL    *string
	ThumbnailObject *string
}

// Create inserts the video row and returns it with database timestamps.
func (r *VideoRepository) Create(ctx context.Context, sess txmanager.Session, input CreateVideoInput) (*po.Video, error) {
	const query = `
		INSERT INTO media.videos (
			video_id, owner_id, title, description,
			media_url, media_object, thumbnail_url, thumbnail_object,
			duration_seconds
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING view_count, created_at, updated_at
	`

	v := &po.Video{
		VideoID:         input.VideoID,
		OwnerID:         input.OwnerID,
		Title:           input.Title,
		Description:     input.Description,
		MediaURL:        input.MediaURL,
		MediaObject:     input.MediaObject,
		ThumbnailURL:    input.ThumbnailURL,
		ThumbnailObject: input.ThumbnailObject,
		DurationSeconds: input.DurationSeconds,
	}
	err := pick(r.db, sess).QueryRow(ctx, query,
		v.VideoID, v.OwnerID, v.Title, v.Description,
		v.MediaURL, v.MediaObject, v.ThumbnailURL, v.ThumbnailObject,
		v.DurationSeconds,
	).Scan(&v.ViewCount, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert video: %w", err)
	}

	r.log.WithContext(ctx).Infof("created video: video_id=%s owner_id=%s", v.VideoID, v.OwnerID)
	return v, nil
}

// FindByID returns the bare video row, ErrVideoNotFound when absent.
func (r *VideoRepository) FindByID(ctx context.Context, sess txmanager.Session, videoID uuid.UUID) (*po.Video, error) {
	const query = `
		SELECT video_id, owner_id, title, description,
		       media_url, media_object, thumbnail_url, thumbnail_object,
		       duration_seconds, view_count, created_at, updated_at
		FROM media.videos
		WHERE video_id = $1
	`

	var v po.Video
	err := pick(r.db, sess).QueryRow(ctx, query, videoID).Scan(
		&v.VideoID, &v.OwnerID, &v.Title, &v.Description,
		&v.MediaURL, &v.MediaObject, &v.ThumbnailURL, &v.ThumbnailObject,
		&v.DurationSeconds, &v.ViewCount, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("query video by id: %w", err)
	}
	return &v, nil
}

// UpdateDetails applies the owner-mutable fields and returns the updated row.
func (r *VideoRepository) UpdateDetails(ctx context.Context, sess txmanager.Session, input UpdateVideoDetailsInput) (*po.Video, error) {
	const query = `
		UPDATE media.videos
		SET title            = COALESCE($2, title),
		    description      = COALESCE($3, description),
		    thumbnail_url    = COALESCE($4, thumbnail_url),
		    thumbnail_object = COALESCE($5, thumbnail_object),
		    updated_at       = now()
		WHERE video_id = $1
		RETURNING video_id, owner_id, title, description,
		          media_url, media_object, thumbnail_url, thumbnail_object,
		          duration_seconds, view_count, created_at, updated_at
	`

	var v po.Video
	err := pick(r.db, sess).QueryRow(ctx, query,
		input.VideoID, input.Title, input.Description,
		input.ThumbnailURL, input.ThumbnailObject,
	).Scan(
		&v.VideoID, &v.OwnerID, &v.Title, &v.Description,
		&v.MediaURL, &v.MediaObject, &v.ThumbnailURL, &v.ThumbnailObject,
		&v.DurationSeconds, &v.ViewCount, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("update video details: %w", err)
	}

	r.log.WithContext(ctx).Infof("updated video: video_id=%s", v.VideoID)
	return &v, nil
}

// Delete removes the row and returns it so the caller can release the blobs.
func (r *VideoRepository) Delete(ctx context.Context, sess txmanager.Session, videoID uuid.UUID) (*po.Video, error) {
	const query = `
		DELETE FROM media.videos
		WHERE video_id = $1
		RETURNING video_id, owner_id, title, description,
		          media_url, media_object, thumbnail_url, thumbnail_object,
		          duration_seconds, view_count, created_at, updated_at
	`

	var v po.Video
	err := pick(r.db, sess).QueryRow(ctx, query, videoID).Scan(
		&v.VideoID, &v.OwnerID, &v.Title, &v.Description,
		&v.MediaURL, &v.MediaObject, &v.ThumbnailURL, &v.ThumbnailObject,
		&v.DurationSeconds, &v.ViewCount, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("delete video: %w", err)
	}

	r.log.WithContext(ctx).Infof("deleted video: video_id=%s", v.VideoID)
	return &v, nil
}

// IncrementViews bumps the monotonic view counter. At-least-once semantics
// are acceptable here; the counter is the one place drift is tolerated.
func (r *VideoRepository) IncrementViews(ctx context.Context, sess txmanager.Session, videoID uuid.UUID) error {
	const query = `
		UPDATE media.videos
		SET view_count = view_count + 1
		WHERE video_id = $1
	`

	tag, err := pick(r.db, sess).Exec(ctx, query, videoID)
	if err != nil {
		return fmt.Errorf("increment video views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVideoNotFound
	}
	return nil
}
