package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/bionicotaku/lingo-services-media/internal/metadata"
	"github.com/bionicotaku/lingo-services-media/internal/models/po"
	"github.com/bionicotaku/lingo-services-media/internal/models/vo"
	"github.com/bionicotaku/lingo-services-media/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// maxPageSize caps the window a single feed read may request.
const maxPageSize = 100

// FeedQueryRepo is the read-model surface: every method aggregates counts
// and viewer flags from the ledger at query time.
type FeedQueryRepo interface {
	ListVideos(ctx context.Context, sess txmanager.Session, params repositories.ListVideosParams) ([]*po.VideoWithEngagement, int64, error)
	FindVideoView(ctx context.Context, sess txmanager.Session, videoID uuid.UUID, viewer *uuid.UUID) (*po.VideoWithEngagement, error)
	ListLikedVideos(ctx context.Context, sess txmanager.Session, actorID uuid.UUID, limit, offset int) ([]*po.VideoWithEngagement, int64, error)
	ListComments(ctx context.Context, sess txmanager.Session, params repositories.ListCommentsParams) ([]*po.CommentWithEngagement, int64, error)
	ListSubscribers(ctx context.Context, sess txmanager.Session, channelID uuid.UUID, limit, offset int) ([]po.UserProfile, int64, error)
	ListSubscribedChannels(ctx context.Context, sess txmanager.Session, subscriberID uuid.UUID, limit, offset int) ([]po.UserProfile, int64, error)
	ChannelStats(ctx context.Context, sess txmanager.Session, channelID uuid.UUID) (*po.ChannelStats, error)
}

// ViewCounter records playback deliveries. At-least-once: an increment that
// commits before a failed response delivery still counts.
type ViewCounter interface {
	IncrementViews(ctx context.Context, sess txmanager.Session, videoID uuid.UUID) error
}

// FeedQueryService serves viewer-relative read models. Reads never mutate;
// the single exception is GetForPlayback's explicit view-count write.
type FeedQueryService struct {
	feed      FeedQueryRepo
	views     ViewCounter
	txManager txmanager.Manager
	log       *log.Helper
}

// NewFeedQueryService constructs the feed reader.
func NewFeedQueryService(feed FeedQueryRepo, views ViewCounter, tx txmanager.Manager, logger log.Logger) *FeedQueryService {
	return &FeedQueryService{
		feed:      feed,
		views:     views,
		txManager: tx,
		log:       log.NewHelper(logger),
	}
}

// ListVideosQuery parameterizes the public feed. Page and PageSize are
// 1-based and required; the transport layer fills in defaults for absent
// parameters, so any non-positive value here is a caller error.
type ListVideosQuery struct {
	Query    string
	SortBy   string
	SortDir  string
	OwnerID  *uuid.UUID
	Page     int
	PageSize int
}

// ListVideos returns one page of the filtered, sorted feed. The viewer (when
// authenticated) is read from request metadata and only influences IsLiked.
func (s *FeedQueryService) ListVideos(ctx context.Context, query ListVideosQuery) (*vo.VideoFeed, error) {
	limit, offset, err := pageWindow(query.Page, query.PageSize)
	if err != nil {
		return nil, err
	}
	sort, ok := repositories.ParseVideoSortField(query.SortBy)
	if !ok {
		return nil, invalidInput(fmt.Sprintf("unknown sort field %q", query.SortBy))
	}
	desc, err := parseSortDir(query.SortDir)
	if err != nil {
		return nil, err
	}

	params := repositories.ListVideosParams{
		Viewer:   metadata.ViewerID(ctx),
		Search:   strings.TrimSpace(query.Query),
		Sort:     sort,
		SortDesc: desc,
		OwnerID:  query.OwnerID,
		Limit:    limit,
		Offset:   offset,
	}

	var (
		rows  []*po.VideoWithEngagement
		total int64
	)
	txErr := s.txManager.WithinReadOnlyTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		var repoErr error
		rows, total, repoErr = s.feed.ListVideos(txCtx, sess, params)
		return repoErr
	})
	if txErr != nil {
		s.log.WithContext(ctx).Errorf("list videos failed: err=%v", txErr)
		return nil, persistenceFailed("failed to list videos", txErr)
	}
	return vo.NewVideoFeed(rows, total), nil
}

// GetVideo returns one video view without side effects.
func (s *FeedQueryService) GetVideo(ctx context.Context, videoID uuid.UUID) (*vo.VideoView, error) {
	viewer := metadata.ViewerID(ctx)
	var row *po.VideoWithEngagement
	err := s.txManager.WithinReadOnlyTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		var repoErr error
		row, repoErr = s.feed.FindVideoView(txCtx, sess, videoID, viewer)
		return repoErr
	})
	if err != nil {
		if errors.Is(err, repositories.ErrVideoNotFound) {
			return nil, ErrVideoNotFound
		}
		s.log.WithContext(ctx).Errorf("get video failed: video_id=%s err=%v", videoID, err)
		return nil, persistenceFailed("failed to load video", err)
	}
	return vo.NewVideoView(row), nil
}

// GetForPlayback increments the view counter and returns the view. The
// increment commits in its own transaction before the read, so a delivery
// failure after commit still leaves the view counted.
func (s *FeedQueryService) GetForPlayback(ctx context.Context, videoID uuid.UUID) (*vo.VideoView, error) {
	txErr := s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		return s.views.IncrementViews(txCtx, sess, videoID)
	})
	if txErr != nil {
		if errors.Is(txErr, repositories.ErrVideoNotFound) {
			return nil, ErrVideoNotFound
		}
		s.log.WithContext(ctx).Errorf("count view failed: video_id=%s err=%v", videoID, txErr)
		return nil, persistenceFailed("failed to record view", txErr)
	}
	return s.GetVideo(ctx, videoID)
}

// ListComments returns one page of a video's comment feed, newest first.
func (s *FeedQueryService) ListComments(ctx context.Context, videoID uuid.UUID, page, pageSize int) (*vo.CommentFeed, error) {
	limit, offset, err := pageWindow(page, pageSize)
	if err != nil {
		return nil, err
	}
	params := repositories.ListCommentsParams{
		VideoID: videoID,
		Viewer:  metadata.ViewerID(ctx),
		Limit:   limit,
		Offset:  offset,
	}

	var (
		rows  []*po.CommentWithEngagement
		total int64
	)
	txErr := s.txManager.WithinReadOnlyTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		var repoErr error
		rows, total, repoErr = s.feed.ListComments(txCtx, sess, params)
		return repoErr
	})
	if txErr != nil {
		s.log.WithContext(ctx).Errorf("list comments failed: video_id=%s err=%v", videoID, txErr)
		return nil, persistenceFailed("failed to list comments", txErr)
	}
	return vo.NewCommentFeed(rows, total), nil
}

// ListLikedVideos returns the authenticated actor's liked videos, most
// recently liked first.
func (s *FeedQueryService) ListLikedVideos(ctx context.Context, actor metadata.Actor, page, pageSize int) (*vo.VideoFeed, error) {
	if actor.IsZero() {
		return nil, ErrUnauthenticated
	}
	limit, offset, err := pageWindow(page, pageSize)
	if err != nil {
		return nil, err
	}

	var (
		rows  []*po.VideoWithEngagement
		total int64
	)
	txErr := s.txManager.WithinReadOnlyTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		var repoErr error
		rows, total, repoErr = s.feed.ListLikedVideos(txCtx, sess, actor.UserID, limit, offset)
		return repoErr
	})
	if txErr != nil {
		s.log.WithContext(ctx).Errorf("list liked videos failed: actor=%s err=%v", actor.UserID, txErr)
		return nil, persistenceFailed("failed to list liked videos", txErr)
	}
	return vo.NewVideoFeed(rows, total), nil
}

// ListChannelSubscribers returns one page of a channel's subscribers.
func (s *FeedQueryService) ListChannelSubscribers(ctx context.Context, channelID uuid.UUID, page, pageSize int) (*vo.ProfileList, error) {
	return s.listProfiles(ctx, channelID, page, pageSize, s.feed.ListSubscribers)
}

// ListSubscribedChannels returns one page of the channels a user follows.
func (s *FeedQueryService) ListSubscribedChannels(ctx context.Context, subscriberID uuid.UUID, page, pageSize int) (*vo.ProfileList, error) {
	return s.listProfiles(ctx, subscriberID, page, pageSize, s.feed.ListSubscribedChannels)
}

func (s *FeedQueryService) listProfiles(
	ctx context.Context,
	id uuid.UUID,
	page, pageSize int,
	query func(context.Context, txmanager.Session, uuid.UUID, int, int) ([]po.UserProfile, int64, error),
) (*vo.ProfileList, error) {
	limit, offset, err := pageWindow(page, pageSize)
	if err != nil {
		return nil, err
	}

	var (
		rows  []po.UserProfile
		total int64
	)
	txErr := s.txManager.WithinReadOnlyTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		var repoErr error
		rows, total, repoErr = query(txCtx, sess, id, limit, offset)
		return repoErr
	})
	if txErr != nil {
		s.log.WithContext(ctx).Errorf("list profiles failed: id=%s err=%v", id, txErr)
		return nil, persistenceFailed("failed to list profiles", txErr)
	}
	return vo.NewProfileList(rows, total), nil
}

// GetChannelStats returns a channel's derived counters.
func (s *FeedQueryService) GetChannelStats(ctx context.Context, channelID uuid.UUID) (*vo.ChannelStats, error) {
	var stats *po.ChannelStats
	err := s.txManager.WithinReadOnlyTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		var repoErr error
		stats, repoErr = s.feed.ChannelStats(txCtx, sess, channelID)
		return repoErr
	})
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrChannelNotFound
		}
		s.log.WithContext(ctx).Errorf("channel stats failed: channel_id=%s err=%v", channelID, err)
		return nil, persistenceFailed("failed to load channel stats", err)
	}
	return vo.NewChannelStats(stats), nil
}

// pageWindow converts 1-based page/size into limit/offset. Absent
// parameters are defaulted at the transport edge; any value that reaches
// here must be positive, and the window must not wrap into a negative
// offset.
func pageWindow(page, pageSize int) (limit, offset int, err error) {
	if page < 1 || pageSize < 1 {
		return 0, 0, invalidInput("page and page_size must be positive")
	}
	if pageSize > maxPageSize {
		return 0, 0, invalidInput(fmt.Sprintf("page_size must not exceed %d", maxPageSize))
	}
	if page-1 > math.MaxInt32/pageSize {
		return 0, 0, invalidInput("page out of range")
	}
	return pageSize, (page - 1) * pageSize, nil
}

func parseSortDir(dir string) (desc bool, err error) {
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "desc":
		return true, nil
	case "asc":
		return false, nil
	default:
		return false, invalidInput(fmt.Sprintf("unknown sort direction %q", dir))
	}
}
