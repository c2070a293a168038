package controller

import (
	"doglingo_backend/internal/model"
	"doglingo_backend/internal/service"
	"doglingo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AchievementController struct {
	AchievementService *service.AchievementService
}

func NewAchievementController(achievementService *service.AchievementService) *AchievementController {
	return &AchievementController{AchievementService: achievementService}
}

// GetAchievements godoc
// @Summary List achievement definitions
// @Tags achievements
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/achievements [get]
func (c *AchievementController) GetAchievements(ctx *gin.Context) {
	achievements, err := c.AchievementService.List(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, achievements)
}

// GetUserAchievements godoc
// @Summary List a user's unlocked achievements
// @Description Each unlock carries its achievement definition
// @Tags achievements
// @Produce json
// @Security ApiKeyAuth
// @Param userId path string true "user id"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/user/{userId}/achievements [get]
func (c *AchievementController) GetUserAchievements(ctx *gin.Context) {
	userID, ok := ownUserID(ctx)
	if !ok {
		return
	}

	achievements, err := c.AchievementService.UserAchievements(ctx.Request.Context(), userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, achievements)
}

// swagger:model UnlockRequest
type UnlockRequest struct {
	AchievementID string `json:"achievementId" binding:"required"`
}

// UnlockAchievement godoc
// @Summary Unlock an achievement
// @Description Records the unlock fact; unlocking twice returns the
// @Description existing unlock
// @Tags achievements
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param userId path string true "user id"
// @Param body body UnlockRequest true "achievement to unlock"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/user/{userId}/achievements [post]
func (c *AchievementController) UnlockAchievement(ctx *gin.Context) {
	userID, ok := ownUserID(ctx)
	if !ok {
		return
	}

	var req UnlockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	unlock, err := c.AchievementService.Unlock(ctx.Request.Context(), userID, req.AchievementID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, unlock)
}

// swagger:model CreateAchievementRequest
type CreateAchievementRequest struct {
	Title       string                `json:"title" binding:"required"`
	Description string                `json:"description" binding:"required"`
	Icon        string                `json:"icon" binding:"required"`
	Type        model.AchievementType `json:"type" binding:"required,oneof=streak completion accuracy milestone"`
	Requirement int                   `json:"requirement" binding:"required,min=1"`
	XPReward    int                   `json:"xpReward" binding:"omitempty,min=0"`
}

// CreateAchievement godoc
// @Summary Create an achievement definition
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body CreateAchievementRequest true "achievement"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/admin/achievements [post]
func (c *AchievementController) CreateAchievement(ctx *gin.Context) {
	var req CreateAchievementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	achievement := &model.Achievement{
		Title:       req.Title,
		Description: req.Description,
		Icon:        req.Icon,
		Type:        req.Type,
		Requirement: req.Requirement,
		XPReward:    req.XPReward,
	}
	if err := c.AchievementService.Create(ctx.Request.Context(), achievement); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, achievement)
}
