package dto

type CreateRepostRequest struct {
	PostID string `json:"post_id" binding:"required,uuid"`
}

type UndoRepostRequest struct {
	// PostID accepts either the original post's id or the caller's own
	// repost id; the service resolves whichever it is given.
	PostID string `json:"post_id" binding:"required,uuid"`
}

type CreateQuoteRequest struct {
	PostID    string `json:"post_id" binding:"required,uuid"`
	QuoteBody string `json:"quote_body" binding:"required"`
}

type UndoQuoteRequest struct {
	PostID string `json:"post_id" binding:"required,uuid"`
}

type CreateCommentRepostRequest struct {
	CommentID        string `json:"comment_id" binding:"required,uuid"`
	Body             string `json:"body" binding:"required"`
	OriginalAuthorID string `json:"original_author_id" binding:"required,uuid"`
	IsReply          bool   `json:"is_reply"`
}

type RepostStatusResponse struct {
	Reposted bool          `json:"reposted"`
	Quoted   bool          `json:"quoted"`
	Quote    *PostResponse `json:"quote,omitempty"`
}
