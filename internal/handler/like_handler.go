package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reverbhq/reverb/internal/service"
	"github.com/reverbhq/reverb/pkg/response"
)

type LikeHandler struct {
	likeService service.LikeService
}

func NewLikeHandler(likeService service.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

func (h *LikeHandler) LikePost(c *gin.Context) {
	h.togglePost(c, true)
}

func (h *LikeHandler) UnlikePost(c *gin.Context) {
	h.togglePost(c, false)
}

func (h *LikeHandler) LikeComment(c *gin.Context) {
	h.toggleComment(c, true)
}

func (h *LikeHandler) UnlikeComment(c *gin.Context) {
	h.toggleComment(c, false)
}

// togglePost is idempotent: liking a post twice leaves a single like and
// both calls return the current state.
func (h *LikeHandler) togglePost(c *gin.Context, like bool) {
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

	res, err := h.likeService.TogglePostLike(c.Request.Context(), userID, postID, like)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *LikeHandler) toggleComment(c *gin.Context, like bool) {
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.likeService.ToggleCommentLike(c.Request.Context(), userID, commentID, like)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *LikeHandler) CheckPostLike(c *gin.Context) {
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

	liked, err := h.likeService.CheckUserLikedPost(c.Request.Context(), userID, postID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

func (h *LikeHandler) CheckCommentLike(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	liked, err := h.likeService.CheckUserLikedComment(c.Request.Context(), userID, commentID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": liked})
}
