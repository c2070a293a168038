package controller

import (
	"errors"

	"doglingo_backend/internal/service"
	"doglingo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// ownUserID enforces that per-user routes only serve the signed-in user.
func ownUserID(ctx *gin.Context) (string, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return "", false
	}
	userID := ctx.Param("userId")
	if claims.UserID != userID {
		util.Forbidden(ctx)
		return "", false
	}
	return userID, true
}

// GetProgress godoc
// @Summary List a user's lesson progress
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Param userId path string true "user id"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/user/{userId}/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	userID, ok := ownUserID(ctx)
	if !ok {
		return
	}

	progress, err := c.ProgressService.ProgressFor(ctx.Request.Context(), userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// RecordProgress godoc
// @Summary Record a lesson attempt
// @Description Upserts the user's progress row for the lesson, bumps the
// @Description attempt counter and streak, and reports any achievements the
// @Description attempt unlocked
// @Tags progress
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param userId path string true "user id"
// @Param body body service.ProgressRequest true "attempt outcome"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/user/{userId}/progress [post]
func (c *ProgressController) RecordProgress(ctx *gin.Context) {
	userID, ok := ownUserID(ctx)
	if !ok {
		return
	}

	var req service.ProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ProgressService.Record(ctx.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}
