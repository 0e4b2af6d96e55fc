package repositories

import (
	"context"
	"fmt"

	"github.com/bionicotaku/lingo-services-media/internal/models/po"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TargetCatalogRepository answers "does this toggle target exist right now".
// The toggle service checks before appending a fact so the ledger cannot
// accumulate facts pointing at entities that were never there.
type TargetCatalogRepository struct {
	db *pgxpool.Pool
}

// NewTargetCatalogRepository constructs the repository. Injected via Wire.
func NewTargetCatalogRepository(db *pgxpool.Pool) *TargetCatalogRepository {
	return &TargetCatalogRepository{db: db}
}

// TargetExists reports whether an entity of the given kind exists.
func (r *TargetCatalogRepository) TargetExists(ctx context.Context, sess txmanager.Session, kind po.TargetKind, targetID uuid.UUID) (bool, error) {
	var query string
	switch kind {
	case po.TargetKindVideo:
		query = `SELECT EXISTS (SELECT 1 FROM media.videos WHERE video_id = $1)`
	case po.TargetKindComment:
		query = `SELECT EXISTS (SELECT 1 FROM media.comments WHERE comment_id = $1)`
	case po.TargetKindChannel:
		query = `SELECT EXISTS (SELECT 1 FROM media.users WHERE user_id = $1)`
	default:
		return false, fmt.Errorf("unknown target kind: %s", kind)
	}

	var exists bool
	if err := pick(r.db, sess).QueryRow(ctx, query, targetID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check target existence: %w", err)
	}
	return exists, nil
}
