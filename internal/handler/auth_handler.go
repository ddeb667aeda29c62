package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reverbhq/reverb/internal/dto"
	"github.com/reverbhq/reverb/internal/service"
	"github.com/reverbhq/reverb/pkg/response"
	"github.com/reverbhq/reverb/pkg/validator"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input dto.RegisterInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	avatar := avatarFromForm(c)

	res, err := h.authService.Register(c.Request.Context(), input, avatar)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func avatarFromForm(c *gin.Context) *dto.AvatarFile {
	fileHeader, err := c.FormFile("avatar")
	if err != nil || fileHeader == nil {
		return nil
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil
	}
	// Closed when the request ends; the upload consumes it before then.
	return &dto.AvatarFile{
		Reader:   file,
		FileName: fileHeader.Filename,
	}
}
