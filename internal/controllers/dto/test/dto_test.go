package dto_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-media/internal/controllers/dto"
	"github.com/bionicotaku/lingo-services-media/internal/models/vo"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageQuery(t *testing.T) {
	q, err := dto.ParsePageQuery(url.Values{"page": {"3"}, "page_size": {"25"}})
	require.NoError(t, err)
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 25, q.PageSize)

	q, err = dto.ParsePageQuery(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 20, q.PageSize)

	// Explicit zeroes are not absent: they pass through for the service to
	// reject rather than being silently defaulted.
	q, err = dto.ParsePageQuery(url.Values{"page": {"0"}, "page_size": {"0"}})
	require.NoError(t, err)
	assert.Zero(t, q.Page)
	assert.Zero(t, q.PageSize)

	_, err = dto.ParsePageQuery(url.Values{"page": {"two"}})
	require.Error(t, err)
}

func TestParseID(t *testing.T) {
	id := uuid.New()
	parsed, err := dto.ParseID("video_id", id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = dto.ParseID("video_id", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "video_id")
}

func TestNewVideoPayload(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	view := &vo.VideoView{
		VideoID: uuid.New(),
		Owner: vo.OwnerProfile{
			UserID:      uuid.New(),
			Username:    "alice",
			DisplayName: "Alice",
			AvatarURL:   "https://cdn.example/a.png",
		},
		Title:           "Clip",
		Description:     "Desc",
		MediaURL:        "https://blobs.example/videos/a.mp4",
		ThumbnailURL:    "https://blobs.example/thumbnails/a.png",
		DurationSeconds: 42.5,
		ViewCount:       10,
		LikeCount:       3,
		IsLiked:         true,
		CreatedAt:       created,
		UpdatedAt:       created,
	}

	payload := dto.NewVideoPayload(view)
	assert.Equal(t, view.VideoID.String(), payload.VideoID)
	assert.Equal(t, "alice", payload.Owner.Username)
	assert.Equal(t, int64(3), payload.LikeCount)
	assert.True(t, payload.IsLiked)
	assert.Equal(t, "2025-06-01T12:00:00Z", payload.CreatedAt)
}

func TestNewVideoFeedResponseNeverNil(t *testing.T) {
	resp := dto.NewVideoFeedResponse(nil)
	require.NotNil(t, resp)
	assert.NotNil(t, resp.Items)
	assert.Empty(t, resp.Items)

	resp = dto.NewVideoFeedResponse(&vo.VideoFeed{TotalCount: 7})
	assert.Equal(t, int64(7), resp.TotalCount)
	assert.Empty(t, resp.Items)
}

func TestNewCommentFeedResponse(t *testing.T) {
	feed := &vo.CommentFeed{
		Items: []*vo.CommentView{{
			CommentID: uuid.New(),
			VideoID:   uuid.New(),
			Owner:     vo.OwnerProfile{UserID: uuid.New(), Username: "bob"},
			Content:   "first",
			LikeCount: 1,
		}},
		TotalCount: 1,
	}

	resp := dto.NewCommentFeedResponse(feed)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "first", resp.Items[0].Content)
	assert.Equal(t, "bob", resp.Items[0].Owner.Username)
}

func TestNewChannelStatsResponse(t *testing.T) {
	stats := &vo.ChannelStats{
		ChannelID:       uuid.New(),
		SubscriberCount: 5,
		VideoCount:      2,
		TotalViews:      111,
	}

	resp := dto.NewChannelStatsResponse(stats)
	assert.Equal(t, stats.ChannelID.String(), resp.ChannelID)
	assert.Equal(t, int64(5), resp.SubscriberCount)
	assert.Equal(t, int64(111), resp.TotalViews)
}
