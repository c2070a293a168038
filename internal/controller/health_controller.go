package controller

import (
	"net/http"

	"doglingo_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{DB: db}
}

// HealthCheck godoc
// @Summary Service health
// @Tags system
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	components := gin.H{"database": "up"}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			util.InternalServerError(ctx)
			return
		}
		if err := sqlDB.Ping(); err != nil {
			util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
	} else {
		components["database"] = "memory"
	}

	util.Success(ctx, gin.H{
		"status":     "ok",
		"components": components,
	})
}
