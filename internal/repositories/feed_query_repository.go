package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bionicotaku/lingo-services-media/internal/models/po"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FeedQueryRepository serves every read path: feed listings joined with
// engagement counts and the viewer's personal flag. Counts are always derived
// from the ledger at read time, never from stored counters, so they cannot
// drift. Nothing in this repository mutates state.
type FeedQueryRepository struct {
	db  *pgxpool.Pool
	log *log.Helper
}

// NewFeedQueryRepository constructs the repository. Injected via Wire.
func NewFeedQueryRepository(db *pgxpool.Pool, logger log.Logger) *FeedQueryRepository {
	return &FeedQueryRepository{
		db:  db,
		log: log.NewHelper(logger),
	}
}

// VideoSortField enumerates the sortable video columns. Anything else is
// rejected before SQL is built; the field name is never interpolated from
// caller input.
type VideoSortField string

const (
	VideoSortCreatedAt VideoSortField = "created_at"
	VideoSortViews     VideoSortField = "views"
	VideoSortDuration  VideoSortField = "duration"
	VideoSortTitle     VideoSortField = "title"
)

var videoSortColumns = map[VideoSortField]string{
	VideoSortCreatedAt: "v.created_at",
	VideoSortViews:     "v.view_count",
	VideoSortDuration:  "v.duration_seconds",
	VideoSortTitle:     "v.title",
}

// ParseVideoSortField maps a caller-supplied sort name onto the whitelist.
func ParseVideoSortField(raw string) (VideoSortField, bool) {
	field := VideoSortField(strings.TrimSpace(strings.ToLower(raw)))
	if field == "" {
		return VideoSortCreatedAt, true
	}
	_, ok := videoSortColumns[field]
	return field, ok
}

// ListVideosParams parameterizes the video feed query. Search is the raw
// caller substring; escaping happens here, next to the pattern it protects.
type ListVideosParams struct {
	Viewer   *uuid.UUID
	Search   string
	Sort     VideoSortField
	SortDesc bool
	OwnerID  *uuid.UUID
	Limit    int
	Offset   int
}

// escapeLikePattern neutralizes LIKE metacharacters in untrusted input so a
// search term can only ever match literally.
func escapeLikePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

const videoViewColumns = `
	v.video_id, v.owner_id, v.title, v.description,
	v.media_url, v.media_object, v.thumbnail_url, v.thumbnail_object,
	v.duration_seconds, v.view_count, v.created_at, v.updated_at,
	u.username, u.display_name, u.avatar_url,
	(SELECT COUNT(*) FROM media.engagement_facts f
	  WHERE f.target_kind = 'video' AND f.target_id = v.video_id) AS like_count,
	EXISTS (SELECT 1 FROM media.engagement_facts f
	  WHERE f.target_kind = 'video' AND f.target_id = v.video_id
	    AND f.actor_id = $1) AS is_liked`

// ListVideos returns one page of the filtered, sorted feed plus the total
// size of the filtered set before pagination.
func (r *FeedQueryRepository) ListVideos(ctx context.Context, sess txmanager.Session, params ListVideosParams) ([]*po.VideoWithEngagement, int64, error) {
	column, ok := videoSortColumns[params.Sort]
	if !ok {
		return nil, 0, fmt.Errorf("unsupported sort field: %s", params.Sort)
	}
	direction := "ASC"
	if params.SortDesc {
		direction = "DESC"
	}

	pattern := "%" + escapeLikePattern(strings.TrimSpace(params.Search)) + "%"
	hasSearch := strings.TrimSpace(params.Search) != ""

	const countQuery = `
		SELECT COUNT(*)
		FROM media.videos v
		JOIN media.users u ON u.user_id = v.owner_id
		WHERE (NOT $1 OR v.title ILIKE $2 ESCAPE '\' OR u.username ILIKE $2 ESCAPE '\')
		  AND ($3::uuid IS NULL OR v.owner_id = $3)
	`

	q := pick(r.db, sess)

	var total int64
	if err := q.QueryRow(ctx, countQuery, hasSearch, pattern, params.OwnerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count videos: %w", err)
	}

	// Sort column and direction come from the whitelist above, never from
	// raw caller input.
	query := fmt.Sprintf(`
		SELECT %s
		FROM media.videos v
		JOIN media.users u ON u.user_id = v.owner_id
		WHERE (NOT $2 OR v.title ILIKE $3 ESCAPE '\' OR u.username ILIKE $3 ESCAPE '\')
		  AND ($4::uuid IS NULL OR v.owner_id = $4)
		ORDER BY %s %s, v.video_id
		LIMIT $5 OFFSET $6
	`, videoViewColumns, column, direction)

	rows, err := q.Query(ctx, query,
		params.Viewer, hasSearch, pattern, params.OwnerID, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query video feed: %w", err)
	}
	defer rows.Close()

	videos, err := scanVideoViews(rows)
	if err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}

// FindVideoView returns a single video joined with engagement, or
// ErrVideoNotFound.
func (r *FeedQueryRepository) FindVideoView(ctx context.Context, sess txmanager.Session, videoID uuid.UUID, viewer *uuid.UUID) (*po.VideoWithEngagement, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM media.videos v
		JOIN media.users u ON u.user_id = v.owner_id
		WHERE v.video_id = $2
	`, videoViewColumns)

	row := pick(r.db, sess).QueryRow(ctx, query, viewer, videoID)
	v, err := scanVideoView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("query video view: %w", err)
	}
	return v, nil
}

// ListLikedVideos returns the videos an actor currently likes, most recently
// liked first.
func (r *FeedQueryRepository) ListLikedVideos(ctx context.Context, sess txmanager.Session, actorID uuid.UUID, limit, offset int) ([]*po.VideoWithEngagement, int64, error) {
	const countQuery = `
		SELECT COUNT(*)
		FROM media.engagement_facts lf
		JOIN media.videos v ON v.video_id = lf.target_id
		WHERE lf.target_kind = 'video' AND lf.actor_id = $1
	`

	q := pick(r.db, sess)

	var total int64
	if err := q.QueryRow(ctx, countQuery, actorID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count liked videos: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM media.engagement_facts lf
		JOIN media.videos v ON v.video_id = lf.target_id
		JOIN media.users u ON u.user_id = v.owner_id
		WHERE lf.target_kind = 'video' AND lf.actor_id = $1
		ORDER BY lf.created_at DESC, v.video_id
		LIMIT $2 OFFSET $3
	`, videoViewColumns)

	rows, err := q.Query(ctx, query, actorID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query liked videos: %w", err)
	}
	defer rows.Close()

	videos, err := scanVideoViews(rows)
	if err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}

// ListCommentsParams parameterizes the comment feed for one video.
type ListCommentsParams struct {
	VideoID uuid.UUID
	Viewer  *uuid.UUID
	Limit   int
	Offset  int
}

// ListComments returns one page of a video's comments, newest first, each
// joined with like count and the viewer's flag.
func (r *FeedQueryRepository) ListComments(ctx context.Context, sess txmanager.Session, params ListCommentsParams) ([]*po.CommentWithEngagement, int64, error) {
	const countQuery = `SELECT COUNT(*) FROM media.comments WHERE video_id = $1`

	q := pick(r.db, sess)

	var total int64
	if err := q.QueryRow(ctx, countQuery, params.VideoID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	const query = `
		SELECT c.comment_id, c.video_id, c.owner_id, c.content, c.created_at, c.updated_at,
		       u.username, u.display_name, u.avatar_url,
		       (SELECT COUNT(*) FROM media.engagement_facts f
		         WHERE f.target_kind = 'comment' AND f.target_id = c.comment_id) AS like_count,
		       EXISTS (SELECT 1 FROM media.engagement_facts f
		         WHERE f.target_kind = 'comment' AND f.target_id = c.comment_id
		           AND f.actor_id = $1) AS is_liked
		FROM media.comments c
		JOIN media.users u ON u.user_id = c.owner_id
		WHERE c.video_id = $2
		ORDER BY c.created_at DESC, c.comment_id
		LIMIT $3 OFFSET $4
	`

	rows, err := q.Query(ctx, query, params.Viewer, params.VideoID, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query comment feed: %w", err)
	}
	defer rows.Close()

	var comments []*po.CommentWithEngagement
	for rows.Next() {
		var c po.CommentWithEngagement
		err := rows.Scan(
			&c.CommentID, &c.VideoID, &c.OwnerID, &c.Content, &c.CreatedAt, &c.UpdatedAt,
			&c.Owner.Username, &c.Owner.DisplayName, &c.Owner.AvatarURL,
			&c.LikeCount, &c.IsLiked,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan comment row: %w", err)
		}
		c.Owner.UserID = c.OwnerID
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate comment rows: %w", err)
	}
	return comments, total, nil
}

// ListSubscribers returns the public profiles of a channel's subscribers.
func (r *FeedQueryRepository) ListSubscribers(ctx context.Context, sess txmanager.Session, channelID uuid.UUID, limit, offset int) ([]po.UserProfile, int64, error) {
	const countQuery = `
		SELECT COUNT(*) FROM media.engagement_facts
		WHERE target_kind = 'channel' AND target_id = $1
	`
	const query = `
		SELECT u.user_id, u.username, u.display_name, u.avatar_url
		FROM media.engagement_facts f
		JOIN media.users u ON u.user_id = f.actor_id
		WHERE f.target_kind = 'channel' AND f.target_id = $1
		ORDER BY f.created_at DESC, u.user_id
		LIMIT $2 OFFSET $3
	`
	return r.listProfiles(ctx, sess, countQuery, query, channelID, limit, offset)
}

// ListSubscribedChannels returns the channels an actor subscribes to.
func (r *FeedQueryRepository) ListSubscribedChannels(ctx context.Context, sess txmanager.Session, subscriberID uuid.UUID, limit, offset int) ([]po.UserProfile, int64, error) {
	const countQuery = `
		SELECT COUNT(*) FROM media.engagement_facts
		WHERE target_kind = 'channel' AND actor_id = $1
	`
	const query = `
		SELECT u.user_id, u.username, u.display_name, u.avatar_url
		FROM media.engagement_facts f
		JOIN media.users u ON u.user_id = f.target_id
		WHERE f.target_kind = 'channel' AND f.actor_id = $1
		ORDER BY f.created_at DESC, u.user_id
		LIMIT $2 OFFSET $3
	`
	return r.listProfiles(ctx, sess, countQuery, query, subscriberID, limit, offset)
}

func (r *FeedQueryRepository) listProfiles(ctx context.Context, sess txmanager.Session, countQuery, query string, id uuid.UUID, limit, offset int) ([]po.UserProfile, int64, error) {
	q := pick(r.db, sess)

	var total int64
	if err := q.QueryRow(ctx, countQuery, id).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count profiles: %w", err)
	}

	rows, err := q.Query(ctx, query, id, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []po.UserProfile
	for rows.Next() {
		var p po.UserProfile
		if err := rows.Scan(&p.UserID, &p.Username, &p.DisplayName, &p.AvatarURL); err != nil {
			return nil, 0, fmt.Errorf("scan profile row: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate profile rows: %w", err)
	}
	return profiles, total, nil
}

// ChannelStats derives the channel counters from the ledger and the videos
// table in one round trip.
func (r *FeedQueryRepository) ChannelStats(ctx context.Context, sess txmanager.Session, channelID uuid.UUID) (*po.ChannelStats, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM media.engagement_facts
			  WHERE target_kind = 'channel' AND target_id = u.user_id),
			(SELECT COUNT(*) FROM media.videos WHERE owner_id = u.user_id),
			(SELECT COALESCE(SUM(view_count), 0) FROM media.videos WHERE owner_id = u.user_id)
		FROM media.users u
		WHERE u.user_id = $1
	`

	stats := &po.ChannelStats{ChannelID: channelID}
	err := pick(r.db, sess).QueryRow(ctx, query, channelID).Scan(
		&stats.SubscriberCount, &stats.VideoCount, &stats.TotalViews,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query channel stats: %w", err)
	}
	return stats, nil
}

type videoViewRow interface {
	Scan(dest ...any) error
}

func scanVideoView(row videoViewRow) (*po.VideoWithEngagement, error) {
	var v po.VideoWithEngagement
	err := row.Scan(
		&v.VideoID, &v.OwnerID, &v.Title, &v.Description,
		&v.MediaURL, &v.MediaObject, &v.ThumbnailURL, &v.ThumbnailObject,
		&v.DurationSeconds, &v.ViewCount, &v.CreatedAt, &v.UpdatedAt,
		&v.Owner.Username, &v.Owner.DisplayName, &v.Owner.AvatarURL,
		&v.LikeCount, &v.IsLiked,
	)
	if err != nil {
		return nil, err
	}
	v.Owner.UserID = v.OwnerID
	return &v, nil
}

func scanVideoViews(rows pgx.Rows) ([]*po.VideoWithEngagement, error) {
	var videos []*po.VideoWithEngagement
	for rows.Next() {
		v, err := scanVideoView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video row: %w", err)
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate video rows: %w", err)
	}
	return videos, nil
}
