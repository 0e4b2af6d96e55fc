package repositories

import (
	"context"
	"fmt"

	"github.com/bionicotaku/lingo-services-media/internal/models/po"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EngagementRepository is the append/remove-only store of engagement facts.
// The unique index on (actor_id, target_kind, target_id) is the concurrency
// backstop for the toggle path; nothing here takes application-level locks.
type EngagementRepository struct {
	db  *pgxpool.Pool
	log *log.Helper
}

// NewEngagementRepository constructs the repository. Injected via Wire.
func NewEngagementRepository(db *pgxpool.Pool, logger log.Logger) *EngagementRepository {
	return &EngagementRepository{
		db:  db,
		log: log.NewHelper(logger),
	}
}

// Insert appends a fact. The statement is ON CONFLICT DO NOTHING: when a
// concurrent toggle already inserted the same fact, Insert reports
// inserted=false and no error. That losing race is deliberately swallowed so
// the toggle stays idempotent from the actor's point of view.
func (r *EngagementRepository) Insert(ctx context.Context, sess txmanager.Session, fact po.EngagementFact) (bool, error) {
	const query = `
		INSERT INTO media.engagement_facts (fact_id, actor_id, target_kind, target_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (actor_id, target_kind, target_id) DO NOTHING
	`

	tag, err := pick(r.db, sess).Exec(ctx, query,
		fact.FactID, fact.ActorID, fact.TargetKind, fact.TargetID)
	if err != nil {
		// A row-level unique violation can still surface under serializable
		// isolation; treat it the same as the DO NOTHING path.
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert engagement fact: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Remove deletes the fact when present. Zero rows affected is not an error:
// deletion is "delete if present" so concurrent removals cannot fail.
func (r *EngagementRepository) Remove(ctx context.Context, sess txmanager.Session, actorID uuid.UUID, kind po.TargetKind, targetID uuid.UUID) (bool, error) {
	const query = `
		DELETE FROM media.engagement_facts
		WHERE actor_id = $1 AND target_kind = $2 AND target_id = $3
	`

	tag, err := pick(r.db, sess).Exec(ctx, query, actorID, kind, targetID)
	if err != nil {
		return false, fmt.Errorf("remove engagement fact: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Exists reports whether the actor currently holds a fact for the target.
func (r *EngagementRepository) Exists(ctx context.Context, sess txmanager.Session, actorID uuid.UUID, kind po.TargetKind, targetID uuid.UUID) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM media.engagement_facts
			WHERE actor_id = $1 AND target_kind = $2 AND target_id = $3
		)
	`

	var exists bool
	err := pick(r.db, sess).QueryRow(ctx, query, actorID, kind, targetID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check engagement fact: %w", err)
	}
	return exists, nil
}

// CountForTarget derives the live count for one target from the ledger.
func (r *EngagementRepository) CountForTarget(ctx context.Context, sess txmanager.Session, kind po.TargetKind, targetID uuid.UUID) (int64, error) {
	const query = `
		SELECT COUNT(*) FROM media.engagement_facts
		WHERE target_kind = $1 AND target_id = $2
	`

	var count int64
	err := pick(r.db, sess).QueryRow(ctx, query, kind, targetID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count engagement facts: %w", err)
	}
	return count, nil
}

// RemoveAllForTarget cascades fact deletion when a target entity is removed.
func (r *EngagementRepository) RemoveAllForTarget(ctx context.Context, sess txmanager.Session, kind po.TargetKind, targetID uuid.UUID) (int64, error) {
	const query = `
		DELETE FROM media.engagement_facts
		WHERE target_kind = $1 AND target_id = $2
	`

	tag, err := pick(r.db, sess).Exec(ctx, query, kind, targetID)
	if err != nil {
		return 0, fmt.Errorf("remove engagement facts for target: %w", err)
	}
	return tag.RowsAffected(), nil
}

// RemoveAllForVideoComments cascades fact deletion for every comment under a
// video, ahead of the comments themselves being removed in the same
// transaction.
func (r *EngagementRepository) RemoveAllForVideoComments(ctx context.Context, sess txmanager.Session, videoID uuid.UUID) (int64, error) {
	const query = `
		DELETE FROM media.engagement_facts
		WHERE target_kind = 'comment'
		  AND target_id IN (SELECT comment_id FROM media.comments WHERE video_id = $1)
	`

	tag, err := pick(r.db, sess).Exec(ctx, query, videoID)
	if err != nil {
		return 0, fmt.Errorf("remove engagement facts for video comments: %w", err)
	}
	return tag.RowsAffected(), nil
}
