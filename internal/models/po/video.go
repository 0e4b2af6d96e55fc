// Package po defines persistence-oriented data objects shared by repositories.
// PO structs map database rows one to one and are never exposed to transports.
package po

import (
	"time"

	"github.com/google/uuid"
)

// Video maps a row of media.videos.
//
// A row only exists once both blobs (media file and thumbnail) are durably
// stored: media_url and thumbnail_url are NOT NULL columns, so a Video record
// and its blobs come into existence together or not at all.
type Video struct {
	VideoID         uuid.UUID
	OwnerID         uuid.UUID
	Title           string
	Description     string
	MediaURL        string
	MediaObject     string // blob store object name, kept for deletion
	ThumbnailURL    string
	ThumbnailObject string
	DurationSeconds float64
	ViewCount       int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// VideoWithEngagement is the read-model row returned by feed queries: the
// video joined with its owner projection and viewer-relative engagement.
type VideoWithEngagement struct {
	Video
	Owner     UserProfile
	LikeCount int64
	IsLiked   bool
}
