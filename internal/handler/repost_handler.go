package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reverbhq/reverb/internal/dto"
	"github.com/reverbhq/reverb/internal/service"
	"github.com/reverbhq/reverb/pkg/apperror"
	"github.com/reverbhq/reverb/pkg/response"
	"github.com/reverbhq/reverb/pkg/validator"
)

type RepostHandler struct {
	repostService service.RepostService
}

func NewRepostHandler(repostService service.RepostService) *RepostHandler {
	return &RepostHandler{repostService: repostService}
}

func (h *RepostHandler) CreateRepost(c *gin.Context) {
	var req dto.CreateRepostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	postID, _ := uuid.Parse(req.PostID)

	res, err := h.repostService.CreateRepost(c.Request.Context(), userID, postID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *RepostHandler) UndoRepost(c *gin.Context) {
	var req dto.UndoRepostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	postID, _ := uuid.Parse(req.PostID)

	if err := h.repostService.UndoRepost(c.Request.Context(), userID, postID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "repost removed"})
}

func (h *RepostHandler) CreateQuote(c *gin.Context) {
	var req dto.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	postID, _ := uuid.Parse(req.PostID)

	res, err := h.repostService.CreateQuote(c.Request.Context(), userID, postID, req.QuoteBody)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *RepostHandler) UndoQuote(c *gin.Context) {
	var req dto.UndoQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	postID, _ := uuid.Parse(req.PostID)

	if err := h.repostService.UndoQuote(c.Request.Context(), userID, postID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "quote removed"})
}

func (h *RepostHandler) CreateCommentRepost(c *gin.Context) {
	var req dto.CreateCommentRepostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	commentID, _ := uuid.Parse(req.CommentID)
	originalAuthorID, _ := uuid.Parse(req.OriginalAuthorID)

	res, err := h.repostService.CreateCommentRepost(c.Request.Context(), userID, commentID, req.Body, originalAuthorID, req.IsReply)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// GetRepostStatus reports whether the caller has already reposted or quoted
// the given post, and returns the caller's quote when one exists.
func (h *RepostHandler) GetRepostStatus(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	ctx := c.Request.Context()

	reposted, err := h.repostService.HasReposted(ctx, userID, postID, false)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	quoted, err := h.repostService.HasQuoted(ctx, userID, postID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	status := dto.RepostStatusResponse{Reposted: reposted, Quoted: quoted}
	if quoted {
		quote, err := h.repostService.GetUserQuoteOf(ctx, userID, postID)
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			response.ResponseError(c, err)
			return
		}
		status.Quote = quote
	}

	c.JSON(http.StatusOK, status)
}
