package controllers

import (
	"context"

	"github.com/bionicotaku/lingo-services-media/internal/metadata"
	"github.com/bionicotaku/lingo-services-media/internal/services"

	"github.com/go-kratos/kratos/v2/errors"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// Handlers aggregates the route owners for server registration.
type Handlers struct {
	Videos      *VideoHandler
	Comments    *CommentHandler
	Engagements *EngagementHandler
	Channels    *ChannelHandler
}

// NewHandlers bundles the handlers for Wire.
func NewHandlers(videos *VideoHandler, comments *CommentHandler, engagements *EngagementHandler, channels *ChannelHandler) *Handlers {
	return &Handlers{
		Videos:      videos,
		Comments:    comments,
		Engagements: engagements,
		Channels:    channels,
	}
}

// RegisterRoutes mounts every handler under the versioned prefix.
func (h *Handlers) RegisterRoutes(srv *khttp.Server) {
	r := srv.Route("/v1")
	h.Videos.RegisterRoutes(r)
	h.Comments.RegisterRoutes(r)
	h.Engagements.RegisterRoutes(r)
	h.Channels.RegisterRoutes(r)
}

// requireActor returns the propagated identity or Unauthenticated.
func requireActor(ctx context.Context) (metadata.Actor, error) {
	actor, ok := metadata.FromContext(ctx)
	if !ok || actor.IsZero() {
		return metadata.Actor{}, services.ErrUnauthenticated
	}
	return actor, nil
}

func badRequest(err error) error {
	return errors.BadRequest(services.ReasonInvalidInput, err.Error())
}
