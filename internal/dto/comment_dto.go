package dto

import "github.com/google/uuid"

type CreateCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

type CreateReplyRequest struct {
	Body string `json:"body" binding:"required"`
}

type UpdateCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

type CommentResponse struct {
	ID              uuid.UUID        `json:"id"`
	PostID          uuid.UUID        `json:"post_id"`
	ParentCommentID *uuid.UUID       `json:"parent_comment_id,omitempty"`
	Author          AuthorResponse   `json:"author"`
	Body            string           `json:"body"`
	LikesCount      int64            `json:"likes_count"`
	Liked           bool             `json:"liked"`
	Reply           *CommentResponse `json:"reply,omitempty"`
	CreatedAt       string           `json:"created_at"`
	UpdatedAt       string           `json:"updated_at"`
}
