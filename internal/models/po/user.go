package po

import "github.com/google/uuid"

// UserProfile is the public-safe projection of a user row: the only user
// fields this service ever reads or returns. Credential columns stay behind
// the auth service and are never selected here.
type UserProfile struct {
	UserID      uuid.UUID
	Username    string
	DisplayName string
	AvatarURL   string
}

// ChannelStats aggregates a channel's derived counters. None of these are
// stored; each read recomputes them from the ledger and the videos table.
type ChannelStats struct {
	ChannelID       uuid.UUID
	SubscriberCount int64
	VideoCount      int64
	TotalViews      int64
}
