package metadata

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestParseActor(t *testing.T) {
	id := uuid.New()
	actor := ParseActor(" "+id.String()+" ", "alice", "Alice", "https://cdn.example/a.png")
	if actor.UserID != id || actor.Username != "alice" {
		t.Fatalf("unexpected actor: %+v", actor)
	}

	for _, raw := range []string{"", "not-a-uuid", "123"} {
		if got := ParseActor(raw, "alice", "", ""); !got.IsZero() {
			t.Fatalf("ParseActor(%q) must yield a zero actor, got %+v", raw, got)
		}
	}
}

func TestInjectAndFromContext(t *testing.T) {
	actor := Actor{UserID: uuid.New(), Username: "bob"}
	ctx := Inject(context.Background(), actor)

	got, ok := FromContext(ctx)
	if !ok || got.UserID != actor.UserID {
		t.Fatalf("expected injected actor, got (%+v, %t)", got, ok)
	}

	if _, ok := FromContext(context.Background()); ok {
		t.Fatalf("empty context must carry no actor")
	}
}

func TestViewerID(t *testing.T) {
	if ViewerID(context.Background()) != nil {
		t.Fatalf("anonymous context must yield a nil viewer")
	}

	actor := Actor{UserID: uuid.New()}
	viewer := ViewerID(Inject(context.Background(), actor))
	if viewer == nil || *viewer != actor.UserID {
		t.Fatalf("expected viewer %s, got %v", actor.UserID, viewer)
	}
}
