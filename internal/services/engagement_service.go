package services

import (
	"context"
	"fmt"

	"github.com/bionicotaku/lingo-services-media/internal/metadata"
	"github.com/bionicotaku/lingo-services-media/internal/models/po"
	"github.com/bionicotaku/lingo-services-media/internal/models/vo"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// EngagementLedger is the append/remove surface over engagement facts.
// Insert reports whether a row was actually written; a swallowed uniqueness
// conflict reports false with a nil error.
type EngagementLedger interface {
	Insert(ctx context.Context, sess txmanager.Session, fact po.EngagementFact) (bool, error)
	Remove(ctx context.Context, sess txmanager.Session, actorID uuid.UUID, kind po.TargetKind, targetID uuid.UUID) (bool, error)
	Exists(ctx context.Context, sess txmanager.Session, actorID uuid.UUID, kind po.TargetKind, targetID uuid.UUID) (bool, error)
	CountForTarget(ctx context.Context, sess txmanager.Session, kind po.TargetKind, targetID uuid.UUID) (int64, error)
}

// TargetCatalog answers whether a toggle target currently exists.
type TargetCatalog interface {
	TargetExists(ctx context.Context, sess txmanager.Session, kind po.TargetKind, targetID uuid.UUID) (bool, error)
}

// EngagementService owns the like/subscribe toggles. A toggle is two ledger
// writes at most; there is no stored counter to keep in step, so concurrent
// toggles can interleave freely and the uniqueness constraint arbitrates.
type EngagementService struct {
	ledger    EngagementLedger
	catalog   TargetCatalog
	txManager txmanager.Manager
	log       *log.Helper
}

// NewEngagementService constructs the toggle service.
func NewEngagementService(ledger EngagementLedger, catalog TargetCatalog, tx txmanager.Manager, logger log.Logger) *EngagementService {
	return &EngagementService{
		ledger:    ledger,
		catalog:   catalog,
		txManager: tx,
		log:       log.NewHelper(logger),
	}
}

// ToggleInput identifies one actor/target pair to flip.
type ToggleInput struct {
	Actor    metadata.Actor
	Kind     po.TargetKind
	TargetID uuid.UUID
}

// Toggle flips the engagement fact for (actor, kind, target) and returns the
// resulting state. A concurrent duplicate insert is swallowed (the fact
// exists, which is what the caller asked for); a concurrent remove of an
// already-removed fact deletes zero rows and still reports inactive.
func (s *EngagementService) Toggle(ctx context.Context, input ToggleInput) (*vo.ToggleResult, error) {
	if input.Actor.IsZero() {
		return nil, ErrUnauthenticated
	}
	fact, err := po.NewEngagementFact(input.Actor.UserID, input.Kind, input.TargetID)
	if err != nil {
		return nil, invalidInput(err.Error())
	}
	if input.Kind == po.TargetKindChannel && input.TargetID == input.Actor.UserID {
		return nil, invalidInput("cannot subscribe to your own channel")
	}

	var (
		active bool
		total  int64
	)
	txErr := s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		exists, err := s.catalog.TargetExists(txCtx, sess, input.Kind, input.TargetID)
		if err != nil {
			return fmt.Errorf("check target: %w", err)
		}
		if !exists {
			return targetNotFound(input.Kind)
		}

		present, err := s.ledger.Exists(txCtx, sess, input.Actor.UserID, input.Kind, input.TargetID)
		if err != nil {
			return fmt.Errorf("check fact: %w", err)
		}
		if present {
			if _, err := s.ledger.Remove(txCtx, sess, input.Actor.UserID, input.Kind, input.TargetID); err != nil {
				return fmt.Errorf("remove fact: %w", err)
			}
			active = false
		} else {
			if _, err := s.ledger.Insert(txCtx, sess, fact); err != nil {
				return fmt.Errorf("insert fact: %w", err)
			}
			active = true
		}

		if total, err = s.ledger.CountForTarget(txCtx, sess, input.Kind, input.TargetID); err != nil {
			return fmt.Errorf("count facts: %w", err)
		}
		return nil
	})
	if txErr != nil {
		if isCallerError(txErr) {
			return nil, txErr
		}
		s.log.WithContext(ctx).Errorf("toggle failed: actor=%s kind=%s target=%s err=%v", input.Actor.UserID, input.Kind, input.TargetID, txErr)
		return nil, persistenceFailed("failed to toggle engagement", txErr)
	}

	s.log.WithContext(ctx).Debugf("toggle: actor=%s kind=%s target=%s active=%t total=%d", input.Actor.UserID, input.Kind, input.TargetID, active, total)
	return &vo.ToggleResult{Active: active, TotalCount: total}, nil
}

// Status reports whether the fact currently exists and the target's
// engagement total, without mutating.
func (s *EngagementService) Status(ctx context.Context, input ToggleInput) (*vo.ToggleResult, error) {
	if input.Actor.IsZero() {
		return nil, ErrUnauthenticated
	}
	if !input.Kind.Valid() || input.TargetID == uuid.Nil {
		return nil, invalidInput("target kind and id are required")
	}

	var (
		present bool
		total   int64
	)
	err := s.txManager.WithinReadOnlyTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		var repoErr error
		if present, repoErr = s.ledger.Exists(txCtx, sess, input.Actor.UserID, input.Kind, input.TargetID); repoErr != nil {
			return repoErr
		}
		total, repoErr = s.ledger.CountForTarget(txCtx, sess, input.Kind, input.TargetID)
		return repoErr
	})
	if err != nil {
		s.log.WithContext(ctx).Errorf("status failed: actor=%s kind=%s target=%s err=%v", input.Actor.UserID, input.Kind, input.TargetID, err)
		return nil, persistenceFailed("failed to read engagement", err)
	}
	return &vo.ToggleResult{Active: present, TotalCount: total}, nil
}

func targetNotFound(kind po.TargetKind) error {
	switch kind {
	case po.TargetKindComment:
		return ErrCommentNotFound
	case po.TargetKindChannel:
		return ErrChannelNotFound
	default:
		return ErrVideoNotFound
	}
}

// isCallerError distinguishes errors the toggle should surface unchanged
// from infrastructure failures that get wrapped.
func isCallerError(err error) bool {
	return errors.Is(err, ErrVideoNotFound) ||
		errors.Is(err, ErrCommentNotFound) ||
		errors.Is(err, ErrChannelNotFound)
}
