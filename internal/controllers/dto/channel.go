package dto

import "github.com/bionicotaku/lingo-services-media/internal/models/vo"

// ToggleResponse reports the state after a like/subscribe flip, with the
// target's resulting engagement total.
type ToggleResponse struct {
	Active     bool  `json:"active"`
	TotalCount int64 `json:"total_count"`
}

// ProfileListResponse is one page of public profiles.
type ProfileListResponse struct {
	Items      []OwnerPayload `json:"items"`
	TotalCount int64          `json:"total_count"`
}

// ChannelStatsResponse carries a channel's derived counters.
type ChannelStatsResponse struct {
	ChannelID       string `json:"channel_id"`
	SubscriberCount int64  `json:"subscriber_count"`
	VideoCount      int64  `json:"video_count"`
	TotalViews      int64  `json:"total_views"`
}

// NewToggleResponse converts a toggle result.
func NewToggleResponse(r *vo.ToggleResult) *ToggleResponse {
	if r == nil {
		return &ToggleResponse{}
	}
	return &ToggleResponse{Active: r.Active, TotalCount: r.TotalCount}
}

// NewProfileListResponse converts a profile page.
func NewProfileListResponse(list *vo.ProfileList) *ProfileListResponse {
	if list == nil {
		return &ProfileListResponse{Items: []OwnerPayload{}}
	}
	items := make([]OwnerPayload, 0, len(list.Items))
	for _, it := range list.Items {
		items = append(items, NewOwnerPayload(it))
	}
	return &ProfileListResponse{Items: items, TotalCount: list.TotalCount}
}

// NewChannelStatsResponse converts channel counters.
func NewChannelStatsResponse(s *vo.ChannelStats) *ChannelStatsResponse {
	if s == nil {
		return &ChannelStatsResponse{}
	}
	return &ChannelStatsResponse{
		ChannelID:       s.ChannelID.String(),
		SubscriberCount: s.SubscriberCount,
		VideoCount:      s.VideoCount,
		TotalViews:      s.TotalViews,
	}
}
