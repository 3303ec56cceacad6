package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/comment"
)

type CommentResponse struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"author_name"`
	Created    time.Time `json:"created"`
}

func NewCommentResponse(c *comment.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		Text:       c.Text,
		AuthorName: c.AuthorName,
		Created:    c.CreatedAt,
	}
}

// CreateCommentRequest carries the comment text. Blank text is rejected by the service.
type CreateCommentRequest struct {
	Text string `json:"text"`
}
