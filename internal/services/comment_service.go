package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/bionicotaku/lingo-services-media/internal/metadata"
	"github.com/bionicotaku/lingo-services-media/internal/models/po"
	"github.com/bionicotaku/lingo-services-media/internal/models/vo"
	"github.com/bionicotaku/lingo-services-media/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// maxCommentLength bounds comment bodies.
const maxCommentLength = 1000

// CommentRepo covers comment row access.
type CommentRepo interface {
	Create(ctx context.Context, sess txmanager.Session, c *po.Comment) (*po.Comment, error)
	FindByID(ctx context.Context, sess txmanager.Session, commentID uuid.UUID) (*po.Comment, error)
	UpdateContent(ctx context.Context, sess txmanager.Session, commentID uuid.UUID, content string) (*po.Comment, error)
	Delete(ctx context.Context, sess txmanager.Session, commentID uuid.UUID) error
}

// CommentService owns comment writes. Reads live in FeedQueryService.
type CommentService struct {
	comments  CommentRepo
	catalog   TargetCatalog
	ledger    EngagementCascadeRepo
	txManager txmanager.Manager
	log       *log.Helper
}

// NewCommentService constructs the comment write service.
func NewCommentService(comments CommentRepo, catalog TargetCatalog, ledger EngagementCascadeRepo, tx txmanager.Manager, logger log.Logger) *CommentService {
	return &CommentService{
		comments:  comments,
		catalog:   catalog,
		ledger:    ledger,
		txManager: tx,
		log:       log.NewHelper(logger),
	}
}

// AddComment posts a comment on an existing video.
func (s *CommentService) AddComment(ctx context.Context, actor metadata.Actor, videoID uuid.UUID, content string) (*vo.CommentView, error) {
	if actor.IsZero() {
		return nil, ErrUnauthenticated
	}
	content, err := validateComment(content)
	if err != nil {
		return nil, err
	}
	if videoID == uuid.Nil {
		return nil, invalidInput("video id is required")
	}

	var created *po.Comment
	txErr := s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		exists, err := s.catalog.TargetExists(txCtx, sess, po.TargetKindVideo, videoID)
		if err != nil {
			return fmt.Errorf("check video: %w", err)
		}
		if !exists {
			return ErrVideoNotFound
		}
		var repoErr error
		created, repoErr = s.comments.Create(txCtx, sess, &po.Comment{
			CommentID: uuid.New(),
			VideoID:   videoID,
			OwnerID:   actor.UserID,
			Content:   content,
		})
		return repoErr
	})
	if txErr != nil {
		if errors.Is(txErr, ErrVideoNotFound) {
			return nil, ErrVideoNotFound
		}
		s.log.WithContext(ctx).Errorf("add comment failed: video_id=%s err=%v", videoID, txErr)
		return nil, persistenceFailed("failed to add comment", txErr)
	}

	return vo.NewComment(created, actorProfile(actor)), nil
}

// UpdateComment rewrites the body. Only the author may edit.
func (s *CommentService) UpdateComment(ctx context.Context, actor metadata.Actor, commentID uuid.UUID, content string) (*vo.CommentView, error) {
	if actor.IsZero() {
		return nil, ErrUnauthenticated
	}
	content, err := validateComment(content)
	if err != nil {
		return nil, err
	}

	var updated *po.Comment
	txErr := s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		current, err := s.comments.FindByID(txCtx, sess, commentID)
		if err != nil {
			return err
		}
		if current.OwnerID != actor.UserID {
			return ErrPermissionDenied
		}
		var repoErr error
		updated, repoErr = s.comments.UpdateContent(txCtx, sess, commentID, content)
		return repoErr
	})
	if txErr != nil {
		return nil, s.commentWriteError(ctx, commentID, "update", txErr)
	}

	return vo.NewComment(updated, actorProfile(actor)), nil
}

// DeleteComment removes the comment and its ledger facts in one transaction.
// Only the author may delete.
func (s *CommentService) DeleteComment(ctx context.Context, actor metadata.Actor, commentID uuid.UUID) error {
	if actor.IsZero() {
		return ErrUnauthenticated
	}

	txErr := s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		current, err := s.comments.FindByID(txCtx, sess, commentID)
		if err != nil {
			return err
		}
		if current.OwnerID != actor.UserID {
			return ErrPermissionDenied
		}
		if _, err := s.ledger.RemoveAllForTarget(txCtx, sess, po.TargetKindComment, commentID); err != nil {
			return fmt.Errorf("remove comment facts: %w", err)
		}
		return s.comments.Delete(txCtx, sess, commentID)
	})
	if txErr != nil {
		return s.commentWriteError(ctx, commentID, "delete", txErr)
	}
	return nil
}

func (s *CommentService) commentWriteError(ctx context.Context, commentID uuid.UUID, op string, err error) error {
	switch {
	case errors.Is(err, repositories.ErrCommentNotFound):
		return ErrCommentNotFound
	case errors.Is(err, ErrPermissionDenied):
		return ErrPermissionDenied
	default:
		s.log.WithContext(ctx).Errorf("%s comment failed: comment_id=%s err=%v", op, commentID, err)
		return persistenceFailed("failed to "+op+" comment", err)
	}
}

func validateComment(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", invalidInput("content is required")
	}
	if len(content) > maxCommentLength {
		return "", invalidInput("content is too long")
	}
	return content, nil
}
