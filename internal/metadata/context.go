// Package metadata carries the authenticated actor identity through the
// request context. The auth gateway verifies credentials upstream and hands
// this service an already-trusted identity in propagated headers; nothing
// here verifies anything.
package metadata

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Propagated header names, set by the auth gateway.
const (
	// PropagatedPrefix marks headers forwarded across service hops.
	PropagatedPrefix = "x-md-global-"

	HeaderUserID      = "x-md-global-user-id"
	HeaderUsername    = "x-md-global-username"
	HeaderDisplayName = "x-md-global-display-name"
	HeaderAvatarURL   = "x-md-global-avatar-url"
)

// Actor is the verified identity performing a request.
type Actor struct {
	UserID      uuid.UUID
	Username    string
	DisplayName string
	AvatarURL   string
}

// IsZero reports whether no identity was propagated.
func (a Actor) IsZero() bool {
	return a.UserID == uuid.Nil
}

// ParseActor builds an Actor from raw header values. A missing or malformed
// user id yields a zero Actor; the caller decides whether anonymity is
// acceptable for the operation.
func ParseActor(userID, username, displayName, avatarURL string) Actor {
	id, err := uuid.Parse(strings.TrimSpace(userID))
	if err != nil {
		return Actor{}
	}
	return Actor{
		UserID:      id,
		Username:    strings.TrimSpace(username),
		DisplayName: strings.TrimSpace(displayName),
		AvatarURL:   strings.TrimSpace(avatarURL),
	}
}

type ctxKey struct{}

// Inject stores the actor in the context. Zero actors are not stored so
// FromContext can distinguish anonymous requests.
func Inject(ctx context.Context, actor Actor) context.Context {
	if actor.IsZero() {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, actor)
}

// FromContext reads the actor injected upstream.
func FromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(ctxKey{}).(Actor)
	return actor, ok
}

// ViewerID returns a nullable viewer reference for read paths: nil for
// anonymous requests, the actor id otherwise.
func ViewerID(ctx context.Context) *uuid.UUID {
	actor, ok := FromContext(ctx)
	if !ok || actor.IsZero() {
		return nil
	}
	id := actor.UserID
	return &id
}
