package dto

import "github.com/bionicotaku/lingo-services-media/internal/models/vo"

// OwnerPayload is the public owner projection every feed item carries.
// Credential fields never appear here.
type OwnerPayload struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// VideoPayload is one video in transport form.
type VideoPayload struct {
	VideoID         string       `json:"video_id"`
	Owner           OwnerPayload `json:"owner"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	MediaURL        string       `json:"media_url"`
	ThumbnailURL    string       `json:"thumbnail_url"`
	DurationSeconds float64      `json:"duration_seconds"`
	ViewCount       int64        `json:"view_count"`
	LikeCount       int64        `json:"like_count"`
	IsLiked         bool         `json:"is_liked"`
	CreatedAt       string       `json:"created_at"`
	UpdatedAt       string       `json:"updated_at"`
}

// VideoFeedResponse is one page of videos plus the filtered total.
type VideoFeedResponse struct {
	Items      []VideoPayload `json:"items"`
	TotalCount int64          `json:"total_count"`
}

// UpdateVideoRequest carries the owner-editable fields; nil means unchanged.
type UpdateVideoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// NewVideoPayload converts a view object.
func NewVideoPayload(v *vo.VideoView) VideoPayload {
	if v == nil {
		return VideoPayload{}
	}
	return VideoPayload{
		VideoID:         v.VideoID.String(),
		Owner:           NewOwnerPayload(v.Owner),
		Title:           v.Title,
		Description:     v.Description,
		MediaURL:        v.MediaURL,
		ThumbnailURL:    v.ThumbnailURL,
		DurationSeconds: v.DurationSeconds,
		ViewCount:       v.ViewCount,
		LikeCount:       v.LikeCount,
		IsLiked:         v.IsLiked,
		CreatedAt:       FormatTime(v.CreatedAt),
		UpdatedAt:       FormatTime(v.UpdatedAt),
	}
}

// NewVideoFeedResponse converts a feed page.
func NewVideoFeedResponse(feed *vo.VideoFeed) *VideoFeedResponse {
	if feed == nil {
		return &VideoFeedResponse{Items: []VideoPayload{}}
	}
	items := make([]VideoPayload, 0, len(feed.Items))
	for _, it := range feed.Items {
		items = append(items, NewVideoPayload(it))
	}
	return &VideoFeedResponse{Items: items, TotalCount: feed.TotalCount}
}

// NewOwnerPayload converts an owner projection.
func NewOwnerPayload(p vo.OwnerProfile) OwnerPayload {
	return OwnerPayload{
		UserID:      p.UserID.String(),
		Username:    p.Username,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
	}
}
