package controller

import (
	"path/filepath"

	"doglingo_backend/internal/model"
	"doglingo_backend/internal/service"
	"doglingo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MediaController struct {
	MediaService *service.MediaService
}

func NewMediaController(mediaService *service.MediaService) *MediaController {
	return &MediaController{MediaService: mediaService}
}

// Upload godoc
// @Summary Upload exercise audio or images
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "media file"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/admin/media [post]
func (c *MediaController) Upload(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing file")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	filename := model.GenerateUUID() + filepath.Ext(fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")

	url, err := c.MediaService.Upload(ctx.Request.Context(), filename, file, fileHeader.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"url": url})
}
