package controller

import (
	"errors"

	"doglingo_backend/internal/model"
	"doglingo_backend/internal/service"
	"doglingo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// UpdateUser godoc
// @Summary Update streak, XP or dog name
// @Description Applies a partial update to the signed-in user's own record
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param userId path string true "user id"
// @Param body body model.UserUpdate true "fields to change"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/user/{userId} [patch]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id := ctx.Param("userId")
	if claims.UserID != id {
		util.Forbidden(ctx)
		return
	}

	var upd model.UserUpdate
	if err := ctx.ShouldBindJSON(&upd); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.Update(ctx.Request.Context(), id, upd)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, user)
}
