package service

import (
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/reverbhq/reverb/internal/dto"
	"github.com/reverbhq/reverb/internal/model"
	"github.com/reverbhq/reverb/pkg/apperror"
	"github.com/reverbhq/reverb/pkg/shortlink"
)

const timeLayout = "2006-01-02 15:04:05"

func logIndexError(id uuid.UUID, err error) {
	log.Printf("failed to index post %s in search: %v", id, err)
}

func logStorageError(op string, err error) {
	log.Printf("image storage %s failed: %v", op, err)
}

func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// validateBody enforces the authored-text bound shared by posts, quotes and
// comments. It runs before any write so a failed edit leaves stored content
// untouched.
func validateBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return apperror.ErrEmptyContent
	}
	if len([]rune(body)) > model.MaxBodyLength {
		return apperror.ErrContentTooLong
	}
	return nil
}

func mapAuthor(u model.User) dto.AuthorResponse {
	return dto.AuthorResponse{
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}
}

func mapPostToResponse(post *model.Post, likesCount int64, liked bool) *dto.PostResponse {
	return &dto.PostResponse{
		ID:           post.ID,
		Author:       mapAuthor(post.Author),
		Body:         post.Body,
		Relationship: post.Relationship,
		ShareToken:   shortlink.FromID(post.ID),

		OriginalPostID:    post.OriginalPostID,
		OriginalCommentID: post.OriginalCommentID,
		OriginalAuthorID:  post.OriginalAuthorID,
		IsReplyRepost:     post.IsReplyRepost,

		LikesCount: likesCount,
		Liked:      liked,
		CreatedAt:  post.CreatedAt.Format(timeLayout),
		UpdatedAt:  post.UpdatedAt.Format(timeLayout),
	}
}

func mapCommentToResponse(comment *model.Comment, likesCount int64, liked bool) *dto.CommentResponse {
	return &dto.CommentResponse{
		ID:              comment.ID,
		PostID:          comment.PostID,
		ParentCommentID: comment.ParentCommentID,
		Author:          mapAuthor(comment.Author),
		Body:            comment.Body,
		LikesCount:      likesCount,
		Liked:           liked,
		CreatedAt:       comment.CreatedAt.Format(timeLayout),
		UpdatedAt:       comment.UpdatedAt.Format(timeLayout),
	}
}

func paginationMeta(page, limit int, total int64) dto.PaginationMeta {
	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}
	return dto.PaginationMeta{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
		Limit:       limit,
	}
}

func normalizePage(filter *dto.PageFilter) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	if filter.Limit > 50 {
		filter.Limit = 50
	}
}
