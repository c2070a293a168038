package controller

import (
	"errors"

	"doglingo_backend/internal/model"
	"doglingo_backend/internal/service"
	"doglingo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	LessonService *service.LessonService
}

func NewLessonController(lessonService *service.LessonService) *LessonController {
	return &LessonController{LessonService: lessonService}
}

// GetLessons godoc
// @Summary List the lesson catalog
// @Description Returns all lessons in display order
// @Tags lessons
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/lessons [get]
func (c *LessonController) GetLessons(ctx *gin.Context) {
	lessons, err := c.LessonService.GetLessons(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, lessons)
}

// GetLesson godoc
// @Summary Fetch one lesson
// @Tags lessons
// @Produce json
// @Param id path string true "lesson id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/lessons/{id} [get]
func (c *LessonController) GetLesson(ctx *gin.Context) {
	lesson, err := c.LessonService.GetLesson(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, lesson)
}

// GetExercises godoc
// @Summary List a lesson's exercises
// @Description Returns the lesson's exercises in display order; empty when
// @Description the lesson has none
// @Tags lessons
// @Produce json
// @Param id path string true "lesson id"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id}/exercises [get]
func (c *LessonController) GetExercises(ctx *gin.Context) {
	exercises, err := c.LessonService.GetExercises(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, exercises)
}

// swagger:model CreateLessonRequest
type CreateLessonRequest struct {
	Title             string `json:"title" binding:"required"`
	Description       string `json:"description" binding:"required"`
	Category          string `json:"category" binding:"required"`
	Difficulty        int    `json:"difficulty" binding:"omitempty,min=1,max=5"`
	ExerciseCount     int    `json:"exercises" binding:"required,min=1"`
	EstimatedDuration int    `json:"estimatedDuration" binding:"required,min=1"`
	IsLocked          bool   `json:"isLocked"`
	Icon              string `json:"icon" binding:"required"`
	Order             int    `json:"order" binding:"required,min=1"`
}

// CreateLesson godoc
// @Summary Create a lesson
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body CreateLessonRequest true "lesson"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/admin/lessons [post]
func (c *LessonController) CreateLesson(ctx *gin.Context) {
	var req CreateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson := &model.Lesson{
		Title:             req.Title,
		Description:       req.Description,
		Category:          req.Category,
		Difficulty:        req.Difficulty,
		ExerciseCount:     req.ExerciseCount,
		EstimatedDuration: req.EstimatedDuration,
		IsLocked:          req.IsLocked,
		Icon:              req.Icon,
		Order:             req.Order,
	}
	if err := c.LessonService.CreateLesson(ctx.Request.Context(), lesson); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, lesson)
}

// swagger:model CreateExerciseRequest
type CreateExerciseRequest struct {
	Type          model.ExerciseType `json:"type" binding:"required,oneof=multiple-choice drag-drop audio"`
	Question      string             `json:"question" binding:"required"`
	Options       model.OptionList   `json:"options" binding:"required,min=2"`
	CorrectAnswer model.Answer       `json:"correctAnswer" binding:"required"`
	Explanation   *string            `json:"explanation"`
	AudioURL      *string            `json:"audioUrl"`
	ImageURL      *string            `json:"imageUrl"`
	Order         int                `json:"order" binding:"required,min=1"`
}

// CreateExercise godoc
// @Summary Add an exercise to a lesson
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "lesson id"
// @Param body body CreateExerciseRequest true "exercise"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/lessons/{id}/exercises [post]
func (c *LessonController) CreateExercise(ctx *gin.Context) {
	var req CreateExerciseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exercise := &model.Exercise{
		LessonID:      ctx.Param("id"),
		Type:          req.Type,
		Question:      req.Question,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		Explanation:   req.Explanation,
		AudioURL:      req.AudioURL,
		ImageURL:      req.ImageURL,
		Order:         req.Order,
	}
	if err := c.LessonService.CreateExercise(ctx.Request.Context(), exercise); err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Created(ctx, exercise)
}

// swagger:model CheckAnswerRequest
type CheckAnswerRequest struct {
	Answer model.Answer `json:"answer" binding:"required"`
}

// CheckAnswer godoc
// @Summary Grade a submitted answer
// @Description Compares the submitted answer against the exercise's correct
// @Description answer; drag-drop submissions must match every pair exactly
// @Tags lessons
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "exercise id"
// @Param body body CheckAnswerRequest true "submitted answer"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/exercises/{id}/check [post]
func (c *LessonController) CheckAnswer(ctx *gin.Context) {
	var req CheckAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	correct, exercise, err := c.LessonService.CheckAnswer(ctx.Request.Context(), ctx.Param("id"), req.Answer)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"isCorrect":   correct,
		"explanation": exercise.Explanation,
	})
}
