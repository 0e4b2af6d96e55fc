package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/bionicotaku/lingo-services-media/internal/infrastructure/gcs"
	"github.com/bionicotaku/lingo-services-media/internal/infrastructure/media"
	"github.com/bionicotaku/lingo-services-media/internal/metadata"
	"github.com/bionicotaku/lingo-services-media/internal/models/po"
	"github.com/bionicotaku/lingo-services-media/internal/models/vo"
	"github.com/bionicotaku/lingo-services-media/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// minDurationSeconds is the qualification floor for published media.
const minDurationSeconds = 1.0

// maxTitleLength bounds owner-supplied text fields.
const (
	maxTitleLength       = 200
	maxDescriptionLength = 5000
)

// VideoRepo covers the video rows the ingestion pipeline writes.
type VideoRepo interface {
	Create(ctx context.Context, sess txmanager.Session, input repositories.CreateVideoInput) (*po.Video, error)
	FindByID(ctx context.Context, sess txmanager.Session, videoID uuid.UUID) (*po.Video, error)
	UpdateDetails(ctx context.Context, sess txmanager.Session, input repositories.UpdateVideoDetailsInput) (*po.Video, error)
	Delete(ctx context.Context, sess txmanager.Session, videoID uuid.UUID) (*po.Video, error)
}

// EngagementCascadeRepo removes ledger facts when their target disappears.
type EngagementCascadeRepo interface {
	RemoveAllForTarget(ctx context.Context, sess txmanager.Session, kind po.TargetKind, targetID uuid.UUID) (int64, error)
	RemoveAllForVideoComments(ctx context.Context, sess txmanager.Session, videoID uuid.UUID) (int64, error)
}

// CommentCascadeRepo removes a video's comments during video deletion.
type CommentCascadeRepo interface {
	RemoveAllForVideo(ctx context.Context, sess txmanager.Session, videoID uuid.UUID) (int64, error)
}

// BlobStore is the opaque durable object store for media payloads.
type BlobStore interface {
	Upload(ctx context.Context, localPath string, kind gcs.BlobKind) (gcs.BlobRef, error)
	Delete(ctx context.Context, objectName string) error
}

// MediaProber inspects uploaded files and extracts thumbnails.
type MediaProber interface {
	Probe(ctx context.Context, path string) (media.ProbeResult, error)
	ExtractThumbnail(ctx context.Context, path string, durationSeconds float64) (string, error)
}

// VideoIngestionService runs the publish pipeline and the owner-side video
// mutations. Ordering invariant: both blobs are durable before the row is
// written, and every failure edge deletes whatever it already uploaded.
type VideoIngestionService struct {
	videos      VideoRepo
	engagements EngagementCascadeRepo
	comments    CommentCascadeRepo
	blobs       BlobStore
	prober      MediaProber
	txManager   txmanager.Manager
	log         *log.Helper
}

// NewVideoIngestionService constructs the ingestion pipeline service.
func NewVideoIngestionService(
	videos VideoRepo,
	engagements EngagementCascadeRepo,
	comments CommentCascadeRepo,
	blobs BlobStore,
	prober MediaProber,
	tx txmanager.Manager,
	logger log.Logger,
) *VideoIngestionService {
	return &VideoIngestionService{
		videos:      videos,
		engagements: engagements,
		comments:    comments,
		blobs:       blobs,
		prober:      prober,
		txManager:   tx,
		log:         log.NewHelper(logger),
	}
}

// PublishVideoInput carries one upload through the pipeline. LocalPath is a
// temp file owned by the caller; the caller removes it when Publish returns.
type PublishVideoInput struct {
	Actor       metadata.Actor
	LocalPath   string
	Title       string
	Description string
}

// Publish validates, probes, uploads and persists one video.
func (s *VideoIngestionService) Publish(ctx context.Context, input PublishVideoInput) (*vo.VideoView, error) {
	if input.Actor.IsZero() {
		return nil, ErrUnauthenticated
	}
	if err := validateVideoText(input.Title, input.Description); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, invalidInput("description is required")
	}
	if input.LocalPath == "" {
		return nil, invalidInput("media file is required")
	}

	probe, err := s.prober.Probe(ctx, input.LocalPath)
	if err != nil {
		if errors.Is(err, media.ErrUnreadableMedia) {
			return nil, unreadableMedia(err)
		}
		s.log.WithContext(ctx).Errorf("probe failed: path=%s err=%v", input.LocalPath, err)
		return nil, unreadableMedia(err)
	}
	if probe.DurationSeconds < minDurationSeconds {
		return nil, unqualifiedMedia(fmt.Sprintf("video duration %.2fs is below the %.0fs minimum", probe.DurationSeconds, minDurationSeconds))
	}

	thumbPath, err := s.prober.ExtractThumbnail(ctx, input.LocalPath, probe.DurationSeconds)
	if err != nil {
		s.log.WithContext(ctx).Errorf("thumbnail extraction failed: path=%s err=%v", input.LocalPath, err)
		return nil, unreadableMedia(err)
	}
	defer func() {
		if removeErr := os.Remove(thumbPath); removeErr != nil && !os.IsNotExist(removeErr) {
			s.log.WithContext(ctx).Warnf("remove temp thumbnail: path=%s err=%v", thumbPath, removeErr)
		}
	}()

	mediaRef, thumbRef, err := s.uploadBlobs(ctx, input.LocalPath, thumbPath)
	if err != nil {
		return nil, err
	}

	videoID := uuid.New()
	var video *po.Video
	txErr := s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		var repoErr error
		video, repoErr = s.videos.Create(txCtx, sess, repositories.CreateVideoInput{
			VideoID:         videoID,
			OwnerID:         input.Actor.UserID,
			Title:           strings.TrimSpace(input.Title),
			Description:     strings.TrimSpace(input.Description),
			MediaURL:        mediaRef.URL,
			MediaObject:     mediaRef.ObjectName,
			ThumbnailURL:    thumbRef.URL,
			ThumbnailObject: thumbRef.ObjectName,
			DurationSeconds: probe.DurationSeconds,
		})
		return repoErr
	})
	if txErr != nil {
		s.releaseBlobs(ctx, mediaRef.ObjectName, thumbRef.ObjectName)
		s.log.WithContext(ctx).Errorf("publish insert failed: video_id=%s err=%v", videoID, txErr)
		return nil, persistenceFailed("failed to publish video", fmt.Errorf("create video: %w", txErr))
	}

	s.log.WithContext(ctx).Infof("video published: video_id=%s owner_id=%s duration=%.2fs", video.VideoID, video.OwnerID, video.DurationSeconds)
	return vo.NewVideoView(&po.VideoWithEngagement{
		Video: *video,
		Owner: actorProfile(input.Actor),
	}), nil
}

// uploadBlobs pushes the media file and its thumbnail concurrently. Uploads
// run on a context that survives caller disconnect, so a half-finished pair
// is always either completed-then-compensated or never started.
func (s *VideoIngestionService) uploadBlobs(ctx context.Context, mediaPath, thumbPath string) (gcs.BlobRef, gcs.BlobRef, error) {
	uploadCtx := context.WithoutCancel(ctx)

	var mediaRef, thumbRef gcs.BlobRef
	g, gCtx := errgroup.WithContext(uploadCtx)
	g.Go(func() error {
		var err error
		mediaRef, err = s.blobs.Upload(gCtx, mediaPath, gcs.BlobKindVideo)
		return err
	})
	g.Go(func() error {
		var err error
		thumbRef, err = s.blobs.Upload(gCtx, thumbPath, gcs.BlobKindThumbnail)
		return err
	})
	if err := g.Wait(); err != nil {
		s.releaseBlobs(ctx, mediaRef.ObjectName, thumbRef.ObjectName)
		s.log.WithContext(ctx).Errorf("blob upload failed: err=%v", err)
		return gcs.BlobRef{}, gcs.BlobRef{}, storageUnavailable(err)
	}
	return mediaRef, thumbRef, nil
}

// releaseBlobs best-effort deletes uploaded objects during compensation and
// teardown. Empty names and already-deleted objects are fine.
func (s *VideoIngestionService) releaseBlobs(ctx context.Context, objectNames ...string) {
	cleanupCtx := context.WithoutCancel(ctx)
	for _, name := range objectNames {
		if name == "" {
			continue
		}
		if err := s.blobs.Delete(cleanupCtx, name); err != nil {
			s.log.WithContext(ctx).Warnf("orphan blob left behind: object=%s err=%v", name, err)
		}
	}
}

// UpdateVideoInput carries the owner-mutable fields. Nil pointers mean
// "leave unchanged"; ThumbnailPath points at a replacement image when set.
type UpdateVideoInput struct {
	Actor         metadata.Actor
	VideoID       uuid.UUID
	Title         *string
	Description   *string
	ThumbnailPath string
}

// UpdateVideo edits title/description and optionally swaps the thumbnail.
// A replacement thumbnail is uploaded before the row update so the video is
// never left pointing at a missing object; the old object is deleted only
// after the new reference is durable.
func (s *VideoIngestionService) UpdateVideo(ctx context.Context, input UpdateVideoInput) (*vo.VideoView, error) {
	if input.Actor.IsZero() {
		return nil, ErrUnauthenticated
	}
	if input.Title == nil && input.Description == nil && input.ThumbnailPath == "" {
		return nil, invalidInput("no fields to update")
	}
	if input.Title != nil {
		if err := validateVideoText(*input.Title, ""); err != nil {
			return nil, err
		}
	}
	if input.Description != nil && len(*input.Description) > maxDescriptionLength {
		return nil, invalidInput("description is too long")
	}

	current, err := s.loadOwnedVideo(ctx, input.Actor, input.VideoID)
	if err != nil {
		return nil, err
	}

	update := repositories.UpdateVideoDetailsInput{
		VideoID:     input.VideoID,
		Title:       trimmed(input.Title),
		Description: trimmed(input.Description),
	}

	var newThumb gcs.BlobRef
	if input.ThumbnailPath != "" {
		newThumb, err = s.blobs.Upload(context.WithoutCancel(ctx), input.ThumbnailPath, gcs.BlobKindThumbnail)
		if err != nil {
			s.log.WithContext(ctx).Errorf("thumbnail upload failed: video_id=%s err=%v", input.VideoID, err)
			return nil, storageUnavailable(err)
		}
		update.ThumbnailURL = &newThumb.URL
		update.ThumbnailObject = &newThumb.ObjectName
	}

	var updated *po.Video
	txErr := s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		var repoErr error
		updated, repoErr = s.videos.UpdateDetails(txCtx, sess, update)
		return repoErr
	})
	if txErr != nil {
		if !newThumb.IsZero() {
			s.releaseBlobs(ctx, newThumb.ObjectName)
		}
		if errors.Is(txErr, repositories.ErrVideoNotFound) {
			return nil, ErrVideoNotFound
		}
		s.log.WithContext(ctx).Errorf("update video failed: video_id=%s err=%v", input.VideoID, txErr)
		return nil, persistenceFailed("failed to update video", fmt.Errorf("update video: %w", txErr))
	}

	if !newThumb.IsZero() && current.ThumbnailObject != newThumb.ObjectName {
		s.releaseBlobs(ctx, current.ThumbnailObject)
	}

	return vo.NewVideoView(&po.VideoWithEngagement{
		Video: *updated,
		Owner: actorProfile(input.Actor),
	}), nil
}

// DeleteVideo removes the row, its comments and every ledger fact touching
// them in one transaction, then best-effort deletes both blobs. A blob that
// is already gone counts as deleted.
func (s *VideoIngestionService) DeleteVideo(ctx context.Context, actor metadata.Actor, videoID uuid.UUID) error {
	if actor.IsZero() {
		return ErrUnauthenticated
	}
	if _, err := s.loadOwnedVideo(ctx, actor, videoID); err != nil {
		return err
	}

	var deleted *po.Video
	txErr := s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		if _, err := s.engagements.RemoveAllForVideoComments(txCtx, sess, videoID); err != nil {
			return fmt.Errorf("remove comment facts: %w", err)
		}
		if _, err := s.comments.RemoveAllForVideo(txCtx, sess, videoID); err != nil {
			return fmt.Errorf("remove comments: %w", err)
		}
		if _, err := s.engagements.RemoveAllForTarget(txCtx, sess, po.TargetKindVideo, videoID); err != nil {
			return fmt.Errorf("remove video facts: %w", err)
		}
		var repoErr error
		deleted, repoErr = s.videos.Delete(txCtx, sess, videoID)
		return repoErr
	})
	if txErr != nil {
		if errors.Is(txErr, repositories.ErrVideoNotFound) {
			return ErrVideoNotFound
		}
		s.log.WithContext(ctx).Errorf("delete video failed: video_id=%s err=%v", videoID, txErr)
		return persistenceFailed("failed to delete video", fmt.Errorf("delete video: %w", txErr))
	}

	s.releaseBlobs(ctx, deleted.MediaObject, deleted.ThumbnailObject)
	s.log.WithContext(ctx).Infof("video deleted: video_id=%s owner_id=%s", videoID, actor.UserID)
	return nil
}

// loadOwnedVideo fetches the video and enforces ownership.
func (s *VideoIngestionService) loadOwnedVideo(ctx context.Context, actor metadata.Actor, videoID uuid.UUID) (*po.Video, error) {
	var video *po.Video
	err := s.txManager.WithinReadOnlyTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		var repoErr error
		video, repoErr = s.videos.FindByID(txCtx, sess, videoID)
		return repoErr
	})
	if err != nil {
		if errors.Is(err, repositories.ErrVideoNotFound) {
			return nil, ErrVideoNotFound
		}
		s.log.WithContext(ctx).Errorf("load video failed: video_id=%s err=%v", videoID, err)
		return nil, persistenceFailed("failed to load video", fmt.Errorf("find video: %w", err))
	}
	if video.OwnerID != actor.UserID {
		return nil, ErrPermissionDenied
	}
	return video, nil
}

func validateVideoText(title, description string) error {
	if strings.TrimSpace(title) == "" {
		return invalidInput("title is required")
	}
	if len(title) > maxTitleLength {
		return invalidInput("title is too long")
	}
	if len(description) > maxDescriptionLength {
		return invalidInput("description is too long")
	}
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func actorProfile(a metadata.Actor) po.UserProfile {
	return po.UserProfile{
		UserID:      a.UserID,
		Username:    a.Username,
		DisplayName: a.DisplayName,
		AvatarURL:   a.AvatarURL,
	}
}
