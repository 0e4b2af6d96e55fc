package controllers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bionicotaku/lingo-services-media/internal/controllers/dto"
	"github.com/bionicotaku/lingo-services-media/internal/services"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/google/uuid"
)

const (
	mediaFormField     = "media"
	thumbnailFormField = "thumbnail"

	maxMediaBytes     = 2 << 30  // 2 GiB request cap for media receipt
	maxThumbnailBytes = 10 << 20 // 10 MiB for thumbnail replacement
	multipartMemory   = 32 << 20
)

// UploadTempDir is the spool directory for multipart receipt files.
type UploadTempDir string

// VideoHandler serves the video routes: receipt, feed, playback, edits.
type VideoHandler struct {
	base      *BaseHandler
	ingestion *services.VideoIngestionService
	feed      *services.FeedQueryService
	tempDir   string
	log       *log.Helper
}

// NewVideoHandler constructs the video handler. tempDir receives upload
// spill files; empty means the system temp directory.
func NewVideoHandler(base *BaseHandler, ingestion *services.VideoIngestionService, feed *services.FeedQueryService, tempDir UploadTempDir, logger log.Logger) *VideoHandler {
	dir := string(tempDir)
	if dir == "" {
		dir = os.TempDir()
	}
	return &VideoHandler{
		base:      base,
		ingestion: ingestion,
		feed:      feed,
		tempDir:   dir,
		log:       log.NewHelper(logger),
	}
}

// RegisterRoutes attaches the video routes to the versioned router.
func (h *VideoHandler) RegisterRoutes(r *khttp.Router) {
	r.POST("/videos", h.Publish)
	r.GET("/videos", h.List)
	r.GET("/videos/{id}", h.Watch)
	r.PATCH("/videos/{id}", h.Update)
	r.PUT("/videos/{id}/thumbnail", h.ReplaceThumbnail)
	r.DELETE("/videos/{id}", h.Delete)
}

// Publish receives one multipart upload and runs the ingestion pipeline.
func (h *VideoHandler) Publish(ctx khttp.Context) error {
	actor, err := requireActor(ctx)
	if err != nil {
		return err
	}
	reqCtx, cancel := h.base.WithTimeout(ctx, HandlerTypeUpload)
	defer cancel()

	req := ctx.Request()
	req.Body = http.MaxBytesReader(ctx.Response(), req.Body, maxMediaBytes)
	if err := req.ParseMultipartForm(multipartMemory); err != nil {
		return badRequest(fmt.Errorf("parse multipart form: %w", err))
	}

	localPath, cleanup, err := h.spoolFormFile(req, mediaFormField)
	if err != nil {
		return err
	}
	defer cleanup()

	view, err := h.ingestion.Publish(reqCtx, services.PublishVideoInput{
		Actor:       actor,
		LocalPath:   localPath,
		Title:       req.FormValue("title"),
		Description: req.FormValue("description"),
	})
	if err != nil {
		return err
	}
	return ctx.Result(http.StatusCreated, dto.NewVideoPayload(view))
}

// List serves the filtered, sorted, paginated feed.
func (h *VideoHandler) List(ctx khttp.Context) error {
	reqCtx, cancel := h.base.WithTimeout(ctx, HandlerTypeQuery)
	defer cancel()

	values := ctx.Query()
	page, err := dto.ParsePageQuery(values)
	if err != nil {
		return badRequest(err)
	}

	query := services.ListVideosQuery{
		Query:    values.Get("q"),
		SortBy:   values.Get("sort_by"),
		SortDir:  values.Get("sort_dir"),
		Page:     page.Page,
		PageSize: page.PageSize,
	}
	if raw := values.Get("owner_id"); raw != "" {
		ownerID, err := dto.ParseID("owner_id", raw)
		if err != nil {
			return badRequest(err)
		}
		query.OwnerID = &ownerID
	}

	feed, err := h.feed.ListVideos(reqCtx, query)
	if err != nil {
		return err
	}
	return ctx.Result(http.StatusOK, dto.NewVideoFeedResponse(feed))
}

// Watch returns one video for playback, counting the view.
func (h *VideoHandler) Watch(ctx khttp.Context) error {
	videoID, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	reqCtx, cancel := h.base.WithTimeout(ctx, HandlerTypeQuery)
	defer cancel()

	view, err := h.feed.GetForPlayback(reqCtx, videoID)
	if err != nil {
		return err
	}
	return ctx.Result(http.StatusOK, dto.NewVideoPayload(view))
}

// Update edits title/description.
func (h *VideoHandler) Update(ctx khttp.Context) error {
	actor, err := requireActor(ctx)
	if err != nil {
		return err
	}
	videoID, err := pathID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateVideoRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(fmt.Errorf("decode body: %w", err))
	}

	reqCtx, cancel := h.base.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()

	view, err := h.ingestion.UpdateVideo(reqCtx, services.UpdateVideoInput{
		Actor:       actor,
		VideoID:     videoID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return ctx.Result(http.StatusOK, dto.NewVideoPayload(view))
}

// ReplaceThumbnail swaps the thumbnail for an owner-supplied image.
func (h *VideoHandler) ReplaceThumbnail(ctx khttp.Context) error {
	actor, err := requireActor(ctx)
	if err != nil {
		return err
	}
	videoID, err := pathID(ctx, "id")
	if err != nil {
		return err
	}

	reqCtx, cancel := h.base.WithTimeout(ctx, HandlerTypeUpload)
	defer cancel()

	req := ctx.Request()
	req.Body = http.MaxBytesReader(ctx.Response(), req.Body, maxThumbnailBytes)
	if err := req.ParseMultipartForm(multipartMemory); err != nil {
		return badRequest(fmt.Errorf("parse multipart form: %w", err))
	}

	localPath, cleanup, err := h.spoolFormFile(req, thumbnailFormField)
	if err != nil {
		return err
	}
	defer cleanup()

	view, err := h.ingestion.UpdateVideo(reqCtx, services.UpdateVideoInput{
		Actor:         actor,
		VideoID:       videoID,
		ThumbnailPath: localPath,
	})
	if err != nil {
		return err
	}
	return ctx.Result(http.StatusOK, dto.NewVideoPayload(view))
}

// Delete removes the video, its engagement and its blobs.
func (h *VideoHandler) Delete(ctx khttp.Context) error {
	actor, err := requireActor(ctx)
	if err != nil {
		return err
	}
	videoID, err := pathID(ctx, "id")
	if err != nil {
		return err
	}

	reqCtx, cancel := h.base.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()

	if err := h.ingestion.DeleteVideo(reqCtx, actor, videoID); err != nil {
		return err
	}
	return ctx.Result(http.StatusNoContent, nil)
}

// spoolFormFile copies one multipart file to a temp file, preserving the
// original extension so downstream tooling can infer the container.
func (h *VideoHandler) spoolFormFile(req *http.Request, field string) (string, func(), error) {
	src, header, err := req.FormFile(field)
	if err != nil {
		return "", nil, badRequest(fmt.Errorf("missing %q file: %w", field, err))
	}
	defer src.Close()

	path, err := spoolToTemp(src, h.tempDir, filepath.Ext(header.Filename))
	if err != nil {
		h.log.Errorf("spool upload failed: field=%s err=%v", field, err)
		return "", nil, errors.InternalServer(services.ReasonPersistenceFailed, "failed to receive upload").WithCause(err)
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			h.log.Warnf("remove temp upload: path=%s err=%v", path, err)
		}
	}
	return path, cleanup, nil
}

func spoolToTemp(src multipart.File, dir, ext string) (string, error) {
	tmp, err := os.CreateTemp(dir, "upload-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return tmp.Name(), nil
}

func pathID(ctx khttp.Context, name string) (uuid.UUID, error) {
	id, err := dto.ParseID(name, ctx.Vars().Get(name))
	if err != nil {
		return uuid.Nil, badRequest(err)
	}
	return id, nil
}
