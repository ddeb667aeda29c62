package dto

import "github.com/google/uuid"

type CreatePostRequest struct {
	Body string `json:"body" binding:"required"`
}

type UpdatePostRequest struct {
	Body string `json:"body" binding:"required"`
}

type PostResponse struct {
	ID           uuid.UUID      `json:"id"`
	Author       AuthorResponse `json:"author"`
	Body         string         `json:"body"`
	Relationship string         `json:"relationship"`
	ShareToken   string         `json:"share_token"`

	OriginalPostID    *uuid.UUID `json:"original_post_id,omitempty"`
	OriginalCommentID *uuid.UUID `json:"original_comment_id,omitempty"`
	OriginalAuthorID  *uuid.UUID `json:"original_author_id,omitempty"`
	IsReplyRepost     bool       `json:"is_reply_repost,omitempty"`

	LikesCount int64  `json:"likes_count"`
	Liked      bool   `json:"liked"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type PaginatedPostResponse struct {
	Data []PostResponse `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

type SearchPostFilter struct {
	Query string `form:"q" binding:"required"`
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
}
