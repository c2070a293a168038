package app

import (
	"doglingo_backend/docs"
	"doglingo_backend/internal/config"
	"doglingo_backend/internal/middleware"
	"doglingo_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// Public routes
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		public.GET("/lessons", c.lesson.GetLessons)
		public.GET("/lessons/:id", c.lesson.GetLesson)
		public.GET("/lessons/:id/exercises", c.lesson.GetExercises)
		public.GET("/achievements", c.achievement.GetAchievements)
	}

	// Per-user routes, gated by the JWT middleware
	authed := router.Group("/api")
	authed.Use(middleware.AuthMiddleware(cfg))
	{
		authed.PATCH("/user/:userId", c.user.UpdateUser)
		authed.GET("/user/:userId/progress", c.progress.GetProgress)
		authed.POST("/user/:userId/progress", c.progress.RecordProgress)
		authed.GET("/user/:userId/achievements", c.achievement.GetUserAchievements)
		authed.POST("/user/:userId/achievements", c.achievement.UnlockAchievement)
		authed.POST("/exercises/:id/check", c.lesson.CheckAnswer)

		admin := authed.Group("/admin")
		{
			admin.POST("/lessons", c.lesson.CreateLesson)
			admin.POST("/lessons/:id/exercises", c.lesson.CreateExercise)
			admin.POST("/achievements", c.achievement.CreateAchievement)
			admin.POST("/media", c.media.Upload)
		}
	}
}
