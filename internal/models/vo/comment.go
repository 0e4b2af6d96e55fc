package vo

import (
	"time"

	"github.com/bionicotaku/lingo-services-media/internal/models/po"

	"github.com/google/uuid"
)

// CommentView is a comment enriched with viewer-relative engagement.
type CommentView struct {
	CommentID uuid.UUID
	VideoID   uuid.UUID
	Owner     OwnerProfile
	Content   string
	LikeCount int64
	IsLiked   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CommentFeed is one page of comments plus the filtered total.
type CommentFeed struct {
	Items      []*CommentView
	TotalCount int64
}

// NewCommentView projects a read-model comment row.
func NewCommentView(row *po.CommentWithEngagement) *CommentView {
	if row == nil {
		return nil
	}
	return &CommentView{
		CommentID: row.CommentID,
		VideoID:   row.VideoID,
		Owner:     newOwnerProfile(row.Owner),
		Content:   row.Content,
		LikeCount: row.LikeCount,
		IsLiked:   row.IsLiked,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

// NewCommentFeed projects a page of comment rows.
func NewCommentFeed(rows []*po.CommentWithEngagement, total int64) *CommentFeed {
	items := make([]*CommentView, 0, len(rows))
	for _, row := range rows {
		items = append(items, NewCommentView(row))
	}
	return &CommentFeed{Items: items, TotalCount: total}
}

// NewComment projects a bare comment row (write-path responses carry no
// engagement aggregates yet).
func NewComment(c *po.Comment, owner po.UserProfile) *CommentView {
	if c == nil {
		return nil
	}
	return &CommentView{
		CommentID: c.CommentID,
		VideoID:   c.VideoID,
		Owner:     newOwnerProfile(owner),
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
