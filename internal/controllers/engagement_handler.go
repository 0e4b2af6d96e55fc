package controllers

import (
	"net/http"

	"github.com/bionicotaku/lingo-services-media/internal/controllers/dto"
	"github.com/bionicotaku/lingo-services-media/internal/models/po"
	"github.com/bionicotaku/lingo-services-media/internal/services"

	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// EngagementHandler serves the like and subscribe toggles. Every route is
// an idempotent flip: calling it twice lands back on the original state.
type EngagementHandler struct {
	base        *BaseHandler
	engagements *services.EngagementService
	log         *log.Helper
}

// NewEngagementHandler constructs the toggle handler.
func NewEngagementHandler(base *BaseHandler, engagements *services.EngagementService, logger log.Logger) *EngagementHandler {
	return &EngagementHandler{
		base:        base,
		engagements: engagements,
		log:         log.NewHelper(logger),
	}
}

// RegisterRoutes attaches the toggle routes to the versioned router.
func (h *EngagementHandler) RegisterRoutes(r *khttp.Router) {
	r.POST("/likes/video/{id}", h.toggle(po.TargetKindVideo))
	r.POST("/likes/comment/{id}", h.toggle(po.TargetKindComment))
	r.POST("/subscriptions/{id}", h.toggle(po.TargetKindChannel))
	r.GET("/likes/video/{id}", h.status(po.TargetKindVideo))
	r.GET("/subscriptions/{id}", h.status(po.TargetKindChannel))
}

func (h *EngagementHandler) toggle(kind po.TargetKind) khttp.HandlerFunc {
	return func(ctx khttp.Context) error {
		actor, err := requireActor(ctx)
		if err != nil {
			return err
		}
		targetID, err := pathID(ctx, "id")
		if err != nil {
			return err
		}

		reqCtx, cancel := h.base.WithTimeout(ctx, HandlerTypeCommand)
		defer cancel()

		result, err := h.engagements.Toggle(reqCtx, services.ToggleInput{
			Actor:    actor,
			Kind:     kind,
			TargetID: targetID,
		})
		if err != nil {
			return err
		}
		return ctx.Result(http.StatusOK, dto.NewToggleResponse(result))
	}
}

func (h *EngagementHandler) status(kind po.TargetKind) khttp.HandlerFunc {
	return func(ctx khttp.Context) error {
		actor, err := requireActor(ctx)
		if err != nil {
			return err
		}
		targetID, err := pathID(ctx, "id")
		if err != nil {
			return err
		}

		reqCtx, cancel := h.base.WithTimeout(ctx, HandlerTypeQuery)
		defer cancel()

		result, err := h.engagements.Status(reqCtx, services.ToggleInput{
			Actor:    actor,
			Kind:     kind,
			TargetID: targetID,
		})
		if err != nil {
			return err
		}
		return ctx.Result(http.StatusOK, dto.NewToggleResponse(result))
	}
}
