package dto

import "github.com/bionicotaku/lingo-services-media/internal/models/vo"

// CommentPayload is one comment in transport form.
type CommentPayload struct {
	CommentID string       `json:"comment_id"`
	VideoID   string       `json:"video_id"`
	Owner     OwnerPayload `json:"owner"`
	Content   string       `json:"content"`
	LikeCount int64        `json:"like_count"`
	IsLiked   bool         `json:"is_liked"`
	CreatedAt string       `json:"created_at"`
	UpdatedAt string       `json:"updated_at"`
}

// CommentFeedResponse is one page of comments plus the total.
type CommentFeedResponse struct {
	Items      []CommentPayload `json:"items"`
	TotalCount int64            `json:"total_count"`
}

// CommentRequest carries a new or replacement comment body.
type CommentRequest struct {
	Content string `json:"content"`
}

// NewCommentPayload converts a view object.
func NewCommentPayload(c *vo.CommentView) CommentPayload {
	if c == nil {
		return CommentPayload{}
	}
	return CommentPayload{
		CommentID: c.CommentID.String(),
		VideoID:   c.VideoID.String(),
		Owner:     NewOwnerPayload(c.Owner),
		Content:   c.Content,
		LikeCount: c.LikeCount,
		IsLiked:   c.IsLiked,
		CreatedAt: FormatTime(c.CreatedAt),
		UpdatedAt: FormatTime(c.UpdatedAt),
	}
}

// NewCommentFeedResponse converts a feed page.
func NewCommentFeedResponse(feed *vo.CommentFeed) *CommentFeedResponse {
	if feed == nil {
		return &CommentFeedResponse{Items: []CommentPayload{}}
	}
	items := make([]CommentPayload, 0, len(feed.Items))
	for _, it := range feed.Items {
		items = append(items, NewCommentPayload(it))
	}
	return &CommentFeedResponse{Items: items, TotalCount: feed.TotalCount}
}
