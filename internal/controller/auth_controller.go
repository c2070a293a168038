package controller

import (
	"errors"

	"doglingo_backend/internal/model"
	"doglingo_backend/internal/service"
	"doglingo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// swagger:model RegisterRequest
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	DogName  string `json:"dogName" binding:"required"`
}

// Register godoc
// @Summary Register a new trainer
// @Description Creates a user account for a trainer and their dog
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "registration data"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		DogName:  req.DogName,
	}

	if err := c.AuthService.Register(ctx.Request.Context(), user); err != nil {
		switch {
		case errors.Is(err, util.ErrUsernameTaken):
			util.Conflict(ctx, "username already taken")
		case errors.Is(err, util.ErrEmailRegistered):
			util.Conflict(ctx, "email already registered")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, user)
}

// swagger:model LoginRequest
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary Log a trainer in
// @Description Verifies credentials and returns a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "credentials"
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, user, err := c.AuthService.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.Unauthorized(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"token": token,
		"user":  user,
	})
}
