// Package vo defines view objects returned by the service layer. VO structs
// decouple transport payloads from persistence rows.
package vo

import (
	"time"

	"github.com/bionicotaku/lingo-services-media/internal/models/po"

	"github.com/google/uuid"
)

// OwnerProfile is the public projection of a video/comment owner.
type OwnerProfile struct {
	UserID      uuid.UUID
	Username    string
	DisplayName string
	AvatarURL   string
}

// VideoView is a video enriched with viewer-relative engagement aggregates.
type VideoView struct {
	VideoID         uuid.UUID
	Owner           OwnerProfile
	Title           string
	Description     string
	MediaURL        string
	ThumbnailURL    string
	DurationSeconds float64
	ViewCount       int64
	LikeCount       int64
	IsLiked         bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// VideoFeed is one page of videos plus the filtered total, so clients can
// render pagination controls without a second request.
type VideoFeed struct {
	Items      []*VideoView
	TotalCount int64
}

// NewVideoView projects a read-model row into a view object.
func NewVideoView(row *po.VideoWithEngagement) *VideoView {
	if row == nil {
		return nil
	}
	return &VideoView{
		VideoID:         row.VideoID,
		Owner:           newOwnerProfile(row.Owner),
		Title:           row.Title,
		Description:     row.Description,
		MediaURL:        row.MediaURL,
		ThumbnailURL:    row.ThumbnailURL,
		DurationSeconds: row.DurationSeconds,
		ViewCount:       row.ViewCount,
		LikeCount:       row.LikeCount,
		IsLiked:         row.IsLiked,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

// NewVideoFeed projects a page of read-model rows.
func NewVideoFeed(rows []*po.VideoWithEngagement, total int64) *VideoFeed {
	items := make([]*VideoView, 0, len(rows))
	for _, row := range rows {
		items = append(items, NewVideoView(row))
	}
	return &VideoFeed{Items: items, TotalCount: total}
}

func newOwnerProfile(p po.UserProfile) OwnerProfile {
	return OwnerProfile{
		UserID:      p.UserID,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
	}
}
