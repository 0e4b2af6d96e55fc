package services_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-media/internal/infrastructure/gcs"
	"github.com/bionicotaku/lingo-services-media/internal/infrastructure/media"
	"github.com/bionicotaku/lingo-services-media/internal/metadata"
	"github.com/bionicotaku/lingo-services-media/internal/models/po"
	"github.com/bionicotaku/lingo-services-media/internal/repositories"
	"github.com/bionicotaku/lingo-services-media/internal/services"

	"github.com/bionicotaku/lingo-utils/txmanager"
	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/google/uuid"
)

type stubVideoRepo struct {
	createErr error
	updateErr error
	created   *repositories.CreateVideoInput
	stored    *po.Video
	updated   *repositories.UpdateVideoDetailsInput
	deleted   bool
}

func (s *stubVideoRepo) Create(_ context.Context, _ txmanager.Session, input repositories.CreateVideoInput) (*po.Video, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = &input
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
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	s.stored = v
	return v, nil
}

func (s *stubVideoRepo) FindByID(_ context.Context, _ txmanager.Session, videoID uuid.UUID) (*po.Video, error) {
	if s.stored == nil || s.stored.VideoID != videoID {
		return nil, repositories.ErrVideoNotFound
	}
	return s.stored, nil
}

func (s *stubVideoRepo) UpdateDetails(_ context.Context, _ txmanager.Session, input repositories.UpdateVideoDetailsInput) (*po.Video, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	s.updated = &input
	v := *s.stored
	if input.Title != nil {
		v.Title = *input.Title
	}
	if input.Description != nil {
		v.Description = *input.Description
	}
	if input.ThumbnailURL != nil {
		v.ThumbnailURL = *input.ThumbnailURL
	}
	if input.ThumbnailObject != nil {
		v.ThumbnailObject = *input.ThumbnailObject
	}
	s.stored = &v
	return &v, nil
}

func (s *stubVideoRepo) Delete(_ context.Context, _ txmanager.Session, videoID uuid.UUID) (*po.Video, error) {
	if s.stored == nil || s.stored.VideoID != videoID {
		return nil, repositories.ErrVideoNotFound
	}
	s.deleted = true
	return s.stored, nil
}

type stubCascade struct {
	videoFacts     int
	commentTargets int
	commentFacts   int
	comments       int
}

func (s *stubCascade) RemoveAllForTarget(_ context.Context, _ txmanager.Session, kind po.TargetKind, _ uuid.UUID) (int64, error) {
	switch kind {
	case po.TargetKindVideo:
		s.videoFacts++
	case po.TargetKindComment:
		s.commentTargets++
	}
	return 0, nil
}

func (s *stubCascade) RemoveAllForVideoComments(_ context.Context, _ txmanager.Session, _ uuid.UUID) (int64, error) {
	s.commentFacts++
	return 0, nil
}

func (s *stubCascade) RemoveAllForVideo(_ context.Context, _ txmanager.Session, _ uuid.UUID) (int64, error) {
	s.comments++
	return 0, nil
}

type stubBlobStore struct {
	mu       sync.Mutex
	failKind gcs.BlobKind
	uploads  []gcs.BlobKind
	deleted  []string
}

func (s *stubBlobStore) Upload(_ context.Context, localPath string, kind gcs.BlobKind) (gcs.BlobRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failKind == kind {
		return gcs.BlobRef{}, fmt.Errorf("bucket rejected %s", kind)
	}
	s.uploads = append(s.uploads, kind)
	name := fmt.Sprintf("%ss/%s%s", kind, uuid.NewString(), filepath.Ext(localPath))
	return gcs.BlobRef{URL: "https://blobs.example/" + name, ObjectName: name}, nil
}

func (s *stubBlobStore) Delete(_ context.Context, objectName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, objectName)
	return nil
}

type stubProber struct {
	duration float64
	probeErr error
	thumbErr error
	thumbDir string
}

func (s *stubProber) Probe(_ context.Context, _ string) (media.ProbeResult, error) {
	if s.probeErr != nil {
		return media.ProbeResult{}, s.probeErr
	}
	return media.ProbeResult{DurationSeconds: s.duration}, nil
}

func (s *stubProber) ExtractThumbnail(_ context.Context, _ string, _ float64) (string, error) {
	if s.thumbErr != nil {
		return "", s.thumbErr
	}
	f, err := os.CreateTemp(s.thumbDir, "thumb-*.png")
	if err != nil {
		return "", err
	}
	f.Close()
	return f.Name(), nil
}

type ingestionFixture struct {
	repo    *stubVideoRepo
	cascade *stubCascade
	blobs   *stubBlobStore
	prober  *stubProber
	svc     *services.VideoIngestionService
}

func newIngestionFixture(t *testing.T) *ingestionFixture {
	t.Helper()
	f := &ingestionFixture{
		repo:    &stubVideoRepo{},
		cascade: &stubCascade{},
		blobs:   &stubBlobStore{},
		prober:  &stubProber{duration: 90, thumbDir: t.TempDir()},
	}
	f.svc = services.NewVideoIngestionService(f.repo, f.cascade, f.cascade, f.blobs, f.prober, noopTxManager{}, testLogger())
	return f
}

func mediaFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, []byte("not a real container"), 0o600); err != nil {
		t.Fatalf("write media file: %v", err)
	}
	return path
}

func publishInput(t *testing.T, actor metadata.Actor) services.PublishVideoInput {
	t.Helper()
	return services.PublishVideoInput{
		Actor:       actor,
		LocalPath:   mediaFile(t),
		Title:       "My first clip",
		Description: "A short description",
	}
}

func TestVideoIngestionService_PublishSuccess(t *testing.T) {
	f := newIngestionFixture(t)
	actor := testActor()

	view, err := f.svc.Publish(context.Background(), publishInput(t, actor))
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if f.repo.created == nil {
		t.Fatalf("expected row insert")
	}
	if f.repo.created.MediaObject == "" || f.repo.created.ThumbnailObject == "" {
		t.Fatalf("row must carry both blob references: %+v", f.repo.created)
	}
	if f.repo.created.DurationSeconds != 90 {
		t.Fatalf("expected probed duration, got %f", f.repo.created.DurationSeconds)
	}
	if len(f.blobs.uploads) != 2 {
		t.Fatalf("expected two uploads, got %v", f.blobs.uploads)
	}
	if len(f.blobs.deleted) != 0 {
		t.Fatalf("no compensation expected on success, got %v", f.blobs.deleted)
	}
	if view.Owner.UserID != actor.UserID || view.Owner.Username != actor.Username {
		t.Fatalf("view owner mismatch: %+v", view.Owner)
	}
	if view.LikeCount != 0 || view.IsLiked {
		t.Fatalf("fresh video must have zero engagement")
	}
}

func TestVideoIngestionService_PublishRejectsShortMedia(t *testing.T) {
	f := newIngestionFixture(t)
	f.prober.duration = 0.5

	_, err := f.svc.Publish(context.Background(), publishInput(t, testActor()))
	if err == nil {
		t.Fatalf("expected rejection")
	}
	if got := kerrors.FromError(err).Reason; got != services.ReasonMediaUnqualified {
		t.Fatalf("expected MEDIA_UNQUALIFIED, got %s", got)
	}
	if len(f.blobs.uploads) != 0 {
		t.Fatalf("nothing must be uploaded for unqualified media, got %v", f.blobs.uploads)
	}
	if f.repo.created != nil {
		t.Fatalf("no row must be written for unqualified media")
	}
}

func TestVideoIngestionService_PublishUnreadableMedia(t *testing.T) {
	f := newIngestionFixture(t)
	f.prober.probeErr = fmt.Errorf("%w: moov atom not found", media.ErrUnreadableMedia)

	_, err := f.svc.Publish(context.Background(), publishInput(t, testActor()))
	if err == nil {
		t.Fatalf("expected rejection")
	}
	if got := kerrors.FromError(err).Reason; got != services.ReasonMediaUnreadable {
		t.Fatalf("expected MEDIA_UNREADABLE, got %s", got)
	}
}

func TestVideoIngestionService_PublishCompensatesUploadFailure(t *testing.T) {
	f := newIngestionFixture(t)
	f.blobs.failKind = gcs.BlobKindThumbnail

	_, err := f.svc.Publish(context.Background(), publishInput(t, testActor()))
	if err == nil {
		t.Fatalf("expected failure")
	}
	if got := kerrors.FromError(err).Reason; got != services.ReasonStorageUnavailable {
		t.Fatalf("expected STORAGE_UNAVAILABLE, got %s", got)
	}
	if f.repo.created != nil {
		t.Fatalf("no row must be written after upload failure")
	}
	// The media upload that succeeded must be compensated.
	if len(f.blobs.deleted) != 1 {
		t.Fatalf("expected one compensating delete, got %v", f.blobs.deleted)
	}
}

func TestVideoIngestionService_PublishCompensatesInsertFailure(t *testing.T) {
	f := newIngestionFixture(t)
	f.repo.createErr = errors.New("deadlock detected")

	_, err := f.svc.Publish(context.Background(), publishInput(t, testActor()))
	if err == nil {
		t.Fatalf("expected failure")
	}
	if got := kerrors.FromError(err).Reason; got != services.ReasonPersistenceFailed {
		t.Fatalf("expected PERSISTENCE_FAILED, got %s", got)
	}
	if len(f.blobs.deleted) != 2 {
		t.Fatalf("both blobs must be compensated after insert failure, got %v", f.blobs.deleted)
	}
}

func TestVideoIngestionService_PublishValidation(t *testing.T) {
	f := newIngestionFixture(t)

	_, err := f.svc.Publish(context.Background(), services.PublishVideoInput{
		Actor:       metadata.Actor{},
		LocalPath:   mediaFile(t),
		Title:       "t",
		Description: "d",
	})
	if !kerrors.Is(err, services.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	input := publishInput(t, testActor())
	input.Title = "   "
	_, err = f.svc.Publish(context.Background(), input)
	if got := kerrors.FromError(err).Reason; got != services.ReasonInvalidInput {
		t.Fatalf("expected INVALID_INPUT for blank title, got %s", got)
	}
}

func TestVideoIngestionService_DeleteCascades(t *testing.T) {
	f := newIngestionFixture(t)
	actor := testActor()

	view, err := f.svc.Publish(context.Background(), publishInput(t, actor))
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	if err := f.svc.DeleteVideo(context.Background(), actor, view.VideoID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !f.repo.deleted {
		t.Fatalf("expected row delete")
	}
	if f.cascade.commentFacts != 1 || f.cascade.comments != 1 || f.cascade.videoFacts != 1 {
		t.Fatalf("expected full cascade, got %+v", f.cascade)
	}
	if len(f.blobs.deleted) != 2 {
		t.Fatalf("expected both blobs deleted, got %v", f.blobs.deleted)
	}
}

func TestVideoIngestionService_DeleteRequiresOwnership(t *testing.T) {
	f := newIngestionFixture(t)
	owner := testActor()

	view, err := f.svc.Publish(context.Background(), publishInput(t, owner))
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	err = f.svc.DeleteVideo(context.Background(), testActor(), view.VideoID)
	if !kerrors.Is(err, services.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if f.repo.deleted {
		t.Fatalf("row must survive a non-owner delete")
	}
}

func TestVideoIngestionService_UpdateSwapsThumbnail(t *testing.T) {
	f := newIngestionFixture(t)
	actor := testActor()

	view, err := f.svc.Publish(context.Background(), publishInput(t, actor))
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	oldThumb := f.repo.stored.ThumbnailObject

	thumbPath := filepath.Join(t.TempDir(), "custom.png")
	if err := os.WriteFile(thumbPath, []byte("png"), 0o600); err != nil {
		t.Fatalf("write thumb: %v", err)
	}

	updated, err := f.svc.UpdateVideo(context.Background(), services.UpdateVideoInput{
		Actor:         actor,
		VideoID:       view.VideoID,
		ThumbnailPath: thumbPath,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ThumbnailURL == view.ThumbnailURL {
		t.Fatalf("thumbnail url must change")
	}
	if len(f.blobs.deleted) != 1 || f.blobs.deleted[0] != oldThumb {
		t.Fatalf("old thumbnail must be deleted after the swap, got %v", f.blobs.deleted)
	}
}

func TestVideoIngestionService_UpdateCompensatesNewThumbnail(t *testing.T) {
	f := newIngestionFixture(t)
	actor := testActor()

	view, err := f.svc.Publish(context.Background(), publishInput(t, actor))
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	f.repo.updateErr = errors.New("connection reset")

	thumbPath := filepath.Join(t.TempDir(), "custom.png")
	if err := os.WriteFile(thumbPath, []byte("png"), 0o600); err != nil {
		t.Fatalf("write thumb: %v", err)
	}

	_, err = f.svc.UpdateVideo(context.Background(), services.UpdateVideoInput{
		Actor:         actor,
		VideoID:       view.VideoID,
		ThumbnailPath: thumbPath,
	})
	if err == nil {
		t.Fatalf("expected failure")
	}
	// The new blob was uploaded before the row update, so the failed update
	// must delete it; the old thumbnail must stay referenced and alive.
	if len(f.blobs.deleted) != 1 {
		t.Fatalf("expected one compensating delete, got %v", f.blobs.deleted)
	}
	if f.blobs.deleted[0] == f.repo.stored.ThumbnailObject {
		t.Fatalf("compensation must not delete the still-referenced thumbnail")
	}
}

func TestVideoIngestionService_UpdateTitle(t *testing.T) {
	f := newIngestionFixture(t)
	actor := testActor()

	view, err := f.svc.Publish(context.Background(), publishInput(t, actor))
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	title := "Renamed clip"
	updated, err := f.svc.UpdateVideo(context.Background(), services.UpdateVideoInput{
		Actor:   actor,
		VideoID: view.VideoID,
		Title:   &title,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != title {
		t.Fatalf("expected new title, got %q", updated.Title)
	}
	if f.repo.updated.Description != nil {
		t.Fatalf("description must stay untouched")
	}
}
