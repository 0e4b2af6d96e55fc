package controllers

import (
	"net/http"

	"github.com/bionicotaku/lingo-services-media/internal/controllers/dto"
	"github.com/bionicotaku/lingo-services-media/internal/services"

	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// ChannelHandler serves channel-scoped reads: subscriber lists, subscription
// lists, liked videos and derived stats.
type ChannelHandler struct {
	base *BaseHandler
	feed *services.FeedQueryService
	log  *log.Helper
}

// NewChannelHandler constructs the channel read handler.
func NewChannelHandler(base *BaseHandler, feed *services.FeedQueryService, logger log.Logger) *ChannelHandler {
	return &ChannelHandler{
		base: base,
		feed: feed,
		log:  log.NewHelper(logger),
	}
}

// RegisterRoutes attaches the channel routes to the versioned router.
func (h *ChannelHandler) RegisterRoutes(r *khttp.Router) {
	r.GET("/channels/{id}/subscribers", h.Subscribers)
	r.GET("/channels/{id}/stats", h.Stats)
	r.GET("/users/{id}/subscriptions", h.Subscriptions)
	r.GET("/users/me/likes", h.LikedVideos)
}

// Subscribers lists one page of a channel's subscribers.
func (h *ChannelHandler) Subscribers(ctx khttp.Context) error {
	channelID, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	page, err := dto.ParsePageQuery(ctx.Query())
	if err != nil {
		return badRequest(err)
	}

	reqCtx, cancel := h.base.WithTimeout(ctx, HandlerTypeQuery)
	defer cancel()

	list, err := h.feed.ListChannelSubscribers(reqCtx, channelID, page.Page, page.PageSize)
	if err != nil {
		return err
	}
	return ctx.Result(http.StatusOK, dto.NewProfileListResponse(list))
}

// Subscriptions lists one page of the channels a user follows.
func (h *ChannelHandler) Subscriptions(ctx khttp.Context) error {
	userID, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	page, err := dto.ParsePageQuery(ctx.Query())
	if err != nil {
		return badRequest(err)
	}

	reqCtx, cancel := h.base.WithTimeout(ctx, HandlerTypeQuery)
	defer cancel()

	list, err := h.feed.ListSubscribedChannels(reqCtx, userID, page.Page, page.PageSize)
	if err != nil {
		return err
	}
	return ctx.Result(http.StatusOK, dto.NewProfileListResponse(list))
}

// LikedVideos lists the authenticated caller's liked videos, most recently
// liked first.
func (h *ChannelHandler) LikedVideos(ctx khttp.Context) error {
	actor, err := requireActor(ctx)
	if err != nil {
		return err
	}
	page, err := dto.ParsePageQuery(ctx.Query())
	if err != nil {
		return badRequest(err)
	}

	reqCtx, cancel := h.base.WithTimeout(ctx, HandlerTypeQuery)
	defer cancel()

	feed, err := h.feed.ListLikedVideos(reqCtx, actor, page.Page, page.PageSize)
	if err != nil {
		return err
	}
	return ctx.Result(http.StatusOK, dto.NewVideoFeedResponse(feed))
}

// Stats returns a channel's derived counters.
func (h *ChannelHandler) Stats(ctx khttp.Context) error {
	channelID, err := pathID(ctx, "id")
	if err != nil {
		return err
	}

	reqCtx, cancel := h.base.WithTimeout(ctx, HandlerTypeQuery)
	defer cancel()

	stats, err := h.feed.GetChannelStats(reqCtx, channelID)
	if err != nil {
		return err
	}
	return ctx.Result(http.StatusOK, dto.NewChannelStatsResponse(stats))
}
