package vo

import (
	"github.com/bionicotaku/lingo-services-media/internal/models/po"

	"github.com/google/uuid"
)

// ToggleResult carries the resulting state of a toggle call: Active is true
// when the fact now exists, and TotalCount is the target's engagement total
// read in the same transaction.
type ToggleResult struct {
	Active     bool
	TotalCount int64
}

// ProfileList is one page of public user profiles (subscribers of a channel,
// or channels an actor subscribed to).
type ProfileList struct {
	Items      []OwnerProfile
	TotalCount int64
}

// ChannelStats mirrors po.ChannelStats for transport.
type ChannelStats struct {
	ChannelID       uuid.UUID
	SubscriberCount int64
	VideoCount      int64
	TotalViews      int64
}

// NewProfileList projects public profiles.
func NewProfileList(rows []po.UserProfile, total int64) *ProfileList {
	items := make([]OwnerProfile, 0, len(rows))
	for _, row := range rows {
		items = append(items, newOwnerProfile(row))
	}
	return &ProfileList{Items: items, TotalCount: total}
}

// NewChannelStats projects derived channel counters.
func NewChannelStats(s *po.ChannelStats) *ChannelStats {
	if s == nil {
		return nil
	}
	return &ChannelStats{
		ChannelID:       s.ChannelID,
		SubscriberCount: s.SubscriberCount,
		VideoCount:      s.VideoCount,
		TotalViews:      s.TotalViews,
	}
}
