package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/bionicotaku/lingo-services-media/internal/metadata"
	"github.com/bionicotaku/lingo-services-media/internal/models/po"
	"github.com/bionicotaku/lingo-services-media/internal/services"

	"github.com/bionicotaku/lingo-utils/txmanager"
	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/google/uuid"
)

type stubLedger struct {
	facts map[string]bool

	insertReturns bool
	insertErr     error
	forceConflict bool

	inserted []po.EngagementFact
	removed  int
}

func factKey(actorID uuid.UUID, kind po.TargetKind, targetID uuid.UUID) string {
	return actorID.String() + "/" + string(kind) + "/" + targetID.String()
}

func (s *stubLedger) Insert(_ context.Context, _ txmanager.Session, fact po.EngagementFact) (bool, error) {
	if s.insertErr != nil {
		return false, s.insertErr
	}
	s.inserted = append(s.inserted, fact)
	if s.facts == nil {
		s.facts = map[string]bool{}
	}
	s.facts[factKey(fact.ActorID, fact.TargetKind, fact.TargetID)] = true
	if s.forceConflict {
		// Concurrent winner already wrote the row; the insert is a no-op,
		// but the row is present for reads in the same transaction.
		return false, nil
	}
	return true, nil
}

func (s *stubLedger) Remove(_ context.Context, _ txmanager.Session, actorID uuid.UUID, kind po.TargetKind, targetID uuid.UUID) (bool, error) {
	s.removed++
	key := factKey(actorID, kind, targetID)
	existed := s.facts[key]
	delete(s.facts, key)
	return existed, nil
}

func (s *stubLedger) Exists(_ context.Context, _ txmanager.Session, actorID uuid.UUID, kind po.TargetKind, targetID uuid.UUID) (bool, error) {
	return s.facts[factKey(actorID, kind, targetID)], nil
}

func (s *stubLedger) CountForTarget(_ context.Context, _ txmanager.Session, kind po.TargetKind, targetID uuid.UUID) (int64, error) {
	suffix := "/" + string(kind) + "/" + targetID.String()
	var n int64
	for key, present := range s.facts {
		if present && strings.HasSuffix(key, suffix) {
			n++
		}
	}
	return n, nil
}

type stubCatalog struct {
	exists bool
	err    error
}

func (s *stubCatalog) TargetExists(_ context.Context, _ txmanager.Session, _ po.TargetKind, _ uuid.UUID) (bool, error) {
	return s.exists, s.err
}

func newEngagementService(ledger *stubLedger, catalog *stubCatalog) *services.EngagementService {
	return services.NewEngagementService(ledger, catalog, noopTxManager{}, testLogger())
}

func TestEngagementService_ToggleOnThenOff(t *testing.T) {
	ledger := &stubLedger{}
	svc := newEngagementService(ledger, &stubCatalog{exists: true})
	actor := testActor()
	videoID := uuid.New()

	input := services.ToggleInput{Actor: actor, Kind: po.TargetKindVideo, TargetID: videoID}

	first, err := svc.Toggle(context.Background(), input)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !first.Active || first.TotalCount != 1 {
		t.Fatalf("expected active with total 1 after first toggle, got %+v", first)
	}

	second, err := svc.Toggle(context.Background(), input)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if second.Active || second.TotalCount != 0 {
		t.Fatalf("expected inactive with total 0 after second toggle, got %+v", second)
	}
	if ledger.removed != 1 {
		t.Fatalf("expected one remove, got %d", ledger.removed)
	}
}

func TestEngagementService_ConcurrentInsertSwallowed(t *testing.T) {
	// Insert reports no row written (uniqueness conflict). The toggle must
	// still report active: the fact exists, which is what was asked for.
	ledger := &stubLedger{forceConflict: true}
	svc := newEngagementService(ledger, &stubCatalog{exists: true})

	result, err := svc.Toggle(context.Background(), services.ToggleInput{
		Actor:    testActor(),
		Kind:     po.TargetKindVideo,
		TargetID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !result.Active {
		t.Fatalf("swallowed conflict must still report active")
	}
	if result.TotalCount != 1 {
		t.Fatalf("expected the winner's row to be counted, got %d", result.TotalCount)
	}
}

func TestEngagementService_TargetMissing(t *testing.T) {
	svc := newEngagementService(&stubLedger{}, &stubCatalog{exists: false})

	cases := []struct {
		kind   po.TargetKind
		reason string
	}{
		{po.TargetKindVideo, services.ReasonVideoNotFound},
		{po.TargetKindComment, services.ReasonCommentNotFound},
		{po.TargetKindChannel, services.ReasonChannelNotFound},
	}
	for _, tc := range cases {
		_, err := svc.Toggle(context.Background(), services.ToggleInput{
			Actor:    testActor(),
			Kind:     tc.kind,
			TargetID: uuid.New(),
		})
		if err == nil {
			t.Fatalf("%s: expected error", tc.kind)
		}
		if got := kerrors.FromError(err).Reason; got != tc.reason {
			t.Fatalf("%s: expected reason %s, got %s", tc.kind, tc.reason, got)
		}
	}
}

func TestEngagementService_SelfSubscribeRejected(t *testing.T) {
	svc := newEngagementService(&stubLedger{}, &stubCatalog{exists: true})
	actor := testActor()

	_, err := svc.Toggle(context.Background(), services.ToggleInput{
		Actor:    actor,
		Kind:     po.TargetKindChannel,
		TargetID: actor.UserID,
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := kerrors.FromError(err).Reason; got != services.ReasonInvalidInput {
		t.Fatalf("expected INVALID_INPUT, got %s", got)
	}
}

func TestEngagementService_AnonymousRejected(t *testing.T) {
	svc := newEngagementService(&stubLedger{}, &stubCatalog{exists: true})

	_, err := svc.Toggle(context.Background(), services.ToggleInput{
		Actor:    metadata.Actor{},
		Kind:     po.TargetKindVideo,
		TargetID: uuid.New(),
	})
	if !kerrors.Is(err, services.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestEngagementService_UnknownKindRejected(t *testing.T) {
	svc := newEngagementService(&stubLedger{}, &stubCatalog{exists: true})

	_, err := svc.Toggle(context.Background(), services.ToggleInput{
		Actor:    testActor(),
		Kind:     po.TargetKind("playlist"),
		TargetID: uuid.New(),
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := kerrors.FromError(err).Reason; got != services.ReasonInvalidInput {
		t.Fatalf("expected INVALID_INPUT, got %s", got)
	}
}

func TestEngagementService_Status(t *testing.T) {
	ledger := &stubLedger{}
	svc := newEngagementService(ledger, &stubCatalog{exists: true})
	actor := testActor()
	videoID := uuid.New()
	input := services.ToggleInput{Actor: actor, Kind: po.TargetKindVideo, TargetID: videoID}

	status, err := svc.Status(context.Background(), input)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Active || status.TotalCount != 0 {
		t.Fatalf("expected inactive with total 0 before toggle, got %+v", status)
	}

	if _, err := svc.Toggle(context.Background(), input); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	status, err = svc.Status(context.Background(), input)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !status.Active || status.TotalCount != 1 {
		t.Fatalf("expected active with total 1 after toggle, got %+v", status)
	}
}
