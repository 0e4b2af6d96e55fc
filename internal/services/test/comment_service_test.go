package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-media/internal/models/po"
	"github.com/bionicotaku/lingo-services-media/internal/repositories"
	"github.com/bionicotaku/lingo-services-media/internal/services"

	"github.com/bionicotaku/lingo-utils/txmanager"
	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/google/uuid"
)

type stubCommentRepo struct {
	stored  *po.Comment
	deleted bool
}

func (s *stubCommentRepo) Create(_ context.Context, _ txmanager.Session, c *po.Comment) (*po.Comment, error) {
	out := *c
	out.CreatedAt = time.Now()
	out.UpdatedAt = out.CreatedAt
	s.stored = &out
	return &out, nil
}

func (s *stubCommentRepo) FindByID(_ context.Context, _ txmanager.Session, commentID uuid.UUID) (*po.Comment, error) {
	if s.stored == nil || s.stored.CommentID != commentID {
		return nil, repositories.ErrCommentNotFound
	}
	return s.stored, nil
}

func (s *stubCommentRepo) UpdateContent(_ context.Context, _ txmanager.Session, commentID uuid.UUID, content string) (*po.Comment, error) {
	if s.stored == nil || s.stored.CommentID != commentID {
		return nil, repositories.ErrCommentNotFound
	}
	out := *s.stored
	out.Content = content
	out.UpdatedAt = time.Now()
	s.stored = &out
	return &out, nil
}

func (s *stubCommentRepo) Delete(_ context.Context, _ txmanager.Session, commentID uuid.UUID) error {
	if s.stored == nil || s.stored.CommentID != commentID {
		return repositories.ErrCommentNotFound
	}
	s.deleted = true
	return nil
}

func newCommentFixture(videoExists bool) (*services.CommentService, *stubCommentRepo, *stubCascade) {
	repo := &stubCommentRepo{}
	cascade := &stubCascade{}
	svc := services.NewCommentService(repo, &stubCatalog{exists: videoExists}, cascade, noopTxManager{}, testLogger())
	return svc, repo, cascade
}

func TestCommentService_AddComment(t *testing.T) {
	svc, repo, _ := newCommentFixture(true)
	actor := testActor()
	videoID := uuid.New()

	view, err := svc.AddComment(context.Background(), actor, videoID, "  nice clip  ")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if view.Content != "nice clip" {
		t.Fatalf("content must be trimmed, got %q", view.Content)
	}
	if view.Owner.UserID != actor.UserID {
		t.Fatalf("owner must be the actor, got %+v", view.Owner)
	}
	if repo.stored.VideoID != videoID {
		t.Fatalf("comment must reference the video")
	}
}

func TestCommentService_AddCommentVideoMissing(t *testing.T) {
	svc, _, _ := newCommentFixture(false)

	_, err := svc.AddComment(context.Background(), testActor(), uuid.New(), "hello")
	if !kerrors.Is(err, services.ErrVideoNotFound) {
		t.Fatalf("expected ErrVideoNotFound, got %v", err)
	}
}

func TestCommentService_AddCommentValidation(t *testing.T) {
	svc, _, _ := newCommentFixture(true)

	_, err := svc.AddComment(context.Background(), testActor(), uuid.New(), "   ")
	if got := kerrors.FromError(err).Reason; got != services.ReasonInvalidInput {
		t.Fatalf("expected INVALID_INPUT for blank content, got %s", got)
	}

	_, err = svc.AddComment(context.Background(), testActor(), uuid.New(), strings.Repeat("x", 1001))
	if got := kerrors.FromError(err).Reason; got != services.ReasonInvalidInput {
		t.Fatalf("expected INVALID_INPUT for oversized content, got %s", got)
	}
}

func TestCommentService_UpdateRequiresAuthor(t *testing.T) {
	svc, repo, _ := newCommentFixture(true)
	author := testActor()

	view, err := svc.AddComment(context.Background(), author, uuid.New(), "original")
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	_, err = svc.UpdateComment(context.Background(), testActor(), view.CommentID, "hijacked")
	if !kerrors.Is(err, services.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	updated, err := svc.UpdateComment(context.Background(), author, view.CommentID, "edited")
	if err != nil {
		t.Fatalf("author update: %v", err)
	}
	if updated.Content != "edited" || repo.stored.Content != "edited" {
		t.Fatalf("expected edited content, got %q", updated.Content)
	}
}

func TestCommentService_DeleteCascadesFacts(t *testing.T) {
	svc, repo, cascade := newCommentFixture(true)
	author := testActor()

	view, err := svc.AddComment(context.Background(), author, uuid.New(), "short lived")
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := svc.DeleteComment(context.Background(), author, view.CommentID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !repo.deleted {
		t.Fatalf("expected row delete")
	}
	if cascade.commentTargets != 1 {
		t.Fatalf("expected comment facts cascade, got %+v", cascade)
	}
}

func TestCommentService_DeleteMissing(t *testing.T) {
	svc, _, _ := newCommentFixture(true)

	err := svc.DeleteComment(context.Background(), testActor(), uuid.New())
	if !kerrors.Is(err, services.ErrCommentNotFound) {
		t.Fatalf("expected ErrCommentNotFound, got %v", err)
	}
}
