package controllers

import (
	"fmt"
	"net/http"

	"github.com/bionicotaku/lingo-services-media/internal/controllers/dto"
	"github.com/bionicotaku/lingo-services-media/internal/services"

	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// CommentHandler serves comment writes and the comment feed.
type CommentHandler struct {
	base     *BaseHandler
	comments *services.CommentService
	feed     *services.FeedQueryService
	log      *log.Helper
}

// NewCommentHandler constructs the comment handler.
func NewCommentHandler(base *BaseHandler, comments *services.CommentService, feed *services.FeedQueryService, logger log.Logger) *CommentHandler {
	return &CommentHandler{
		base:     base,
		comments: comments,
		feed:     feed,
		log:      log.NewHelper(logger),
	}
}

// RegisterRoutes attaches the comment routes to the versioned router.
func (h *CommentHandler) RegisterRoutes(r *khttp.Router) {
	r.POST("/videos/{id}/comments", h.Add)
	r.GET("/videos/{id}/comments", h.List)
	r.PATCH("/comments/{id}", h.Update)
	r.DELETE("/comments/{id}", h.Delete)
}

// Add posts a comment on a video.
func (h *CommentHandler) Add(ctx khttp.Context) error {
	actor, err := requireActor(ctx)
	if err != nil {
		return err
	}
	videoID, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(fmt.Errorf("decode body: %w", err))
	}

	reqCtx, cancel := h.base.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()

	view, err := h.comments.AddComment(reqCtx, actor, videoID, req.Content)
	if err != nil {
		return err
	}
	return ctx.Result(http.StatusCreated, dto.NewCommentPayload(view))
}

// List serves one page of a video's comments, newest first.
func (h *CommentHandler) List(ctx khttp.Context) error {
	videoID, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	page, err := dto.ParsePageQuery(ctx.Query())
	if err != nil {
		return badRequest(err)
	}

	reqCtx, cancel := h.base.WithTimeout(ctx, HandlerTypeQuery)
	defer cancel()

	feed, err := h.feed.ListComments(reqCtx, videoID, page.Page, page.PageSize)
	if err != nil {
		return err
	}
	return ctx.Result(http.StatusOK, dto.NewCommentFeedResponse(feed))
}

// Update rewrites a comment body, author only.
func (h *CommentHandler) Update(ctx khttp.Context) error {
	actor, err := requireActor(ctx)
	if err != nil {
		return err
	}
	commentID, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(fmt.Errorf("decode body: %w", err))
	}

	reqCtx, cancel := h.base.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()

	view, err := h.comments.UpdateComment(reqCtx, actor, commentID, req.Content)
	if err != nil {
		return err
	}
	return ctx.Result(http.StatusOK, dto.NewCommentPayload(view))
}

// Delete removes a comment, author only.
func (h *CommentHandler) Delete(ctx khttp.Context) error {
	actor, err := requireActor(ctx)
	if err != nil {
		return err
	}
	commentID, err := pathID(ctx, "id")
	if err != nil {
		return err
	}

	reqCtx, cancel := h.base.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()

	if err := h.comments.DeleteComment(reqCtx, actor, commentID); err != nil {
		return err
	}
	return ctx.Result(http.StatusNoContent, nil)
}
