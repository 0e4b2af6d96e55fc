package po

import (
	"time"

	"github.com/google/uuid"
)

// Comment maps a row of media.comments.
type Comment struct {
	CommentID uuid.UUID
	VideoID   uuid.UUID
	OwnerID   uuid.UUID
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CommentWithEngagement is the read-model row for comment feeds.
type CommentWithEngagement struct {
	Comment
	Owner     UserProfile
	LikeCount int64
	IsLiked   bool
}
