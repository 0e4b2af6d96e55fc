package po

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TargetKind discriminates what an engagement fact points at.
type TargetKind string

const (
	TargetKindVideo   TargetKind = "video"
	TargetKindComment TargetKind = "comment"
	TargetKindChannel TargetKind = "channel"
)

// Valid reports whether the kind is one of the known discriminants.
func (k TargetKind) Valid() bool {
	switch k {
	case TargetKindVideo, TargetKindComment, TargetKindChannel:
		return true
	default:
		return false
	}
}

// EngagementFact maps a row of media.engagement_facts: one "actor likes /
// subscribes-to target" statement. The table carries a uniqueness constraint
// on (actor_id, target_kind, target_id); that constraint, not application
// logic, is what keeps concurrent toggles from double-inserting.
type EngagementFact struct {
	FactID     uuid.UUID
	ActorID    uuid.UUID
	TargetKind TargetKind
	TargetID   uuid.UUID
	CreatedAt  time.Time
}

// NewEngagementFact builds a fact and validates the discriminant at
// construction so a malformed kind can never reach the ledger.
func NewEngagementFact(actorID uuid.UUID, kind TargetKind, targetID uuid.UUID) (EngagementFact, error) {
	if actorID == uuid.Nil {
		return EngagementFact{}, fmt.Errorf("engagement fact: actor id is required")
	}
	if !kind.Valid() {
		return EngagementFact{}, fmt.Errorf("engagement fact: unknown target kind %q", kind)
	}
	if targetID == uuid.Nil {
		return EngagementFact{}, fmt.Errorf("engagement fact: target id is required")
	}
	return EngagementFact{
		FactID:     uuid.New(),
		ActorID:    actorID,
		TargetKind: kind,
		TargetID:   targetID,
	}, nil
}
