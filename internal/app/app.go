package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"doglingo_backend/internal/config"
	"doglingo_backend/internal/controller"
	"doglingo_backend/internal/repository"
	"doglingo_backend/internal/service"
	"doglingo_backend/pkg/database"
	"doglingo_backend/pkg/logger"
	"doglingo_backend/pkg/monitoring"
	"doglingo_backend/pkg/security"
	"doglingo_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
	Store  repository.Storage
}

type services struct {
	auth        *service.AuthService
	user        *service.UserService
	lesson      *service.LessonService
	progress    *service.ProgressService
	achievement *service.AchievementService
	media       *service.MediaService
}

type controllers struct {
	auth        *controller.AuthController
	user        *controller.UserController
	lesson      *controller.LessonController
	progress    *controller.ProgressController
	achievement *controller.AchievementController
	media       *controller.MediaController
	health      *controller.HealthController
}

func (a *App) initServices(cfg *config.Config) (*services, error) {
	s := &services{}

	s.auth = service.NewAuthService(a.Store, cfg)
	s.user = service.NewUserService(a.Store)
	s.lesson = service.NewLessonService(a.Store, a.Redis)
	s.achievement = service.NewAchievementService(a.Store)
	s.progress = service.NewProgressService(a.Store, s.achievement)

	media, err := service.NewMediaService(cfg)
	if err != nil {
		return nil, err
	}
	s.media = media

	return s, nil
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		user:        controller.NewUserController(s.user),
		lesson:      controller.NewLessonController(s.lesson),
		progress:    controller.NewProgressController(s.progress),
		achievement: controller.NewAchievementController(s.achievement),
		media:       controller.NewMediaController(s.media),
		health:      controller.NewHealthController(a.DB),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests == 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window == 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg.Server.Mode)
	logger.Log.Info("Logger initialized successfully")

	app := &App{Config: cfg}

	if cfg.Database.Driver == "memory" {
		app.Store = repository.NewMemStorage()
	} else {
		db, err := database.InitDB(&cfg.Database)
		if err != nil {
			logger.Log.Error("Failed to initialize database", zap.Error(err))
			return nil, err
		}
		app.DB = db
		app.Store = repository.NewGormStorage(db)

		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Error("Failed to initialize redis", zap.Error(err))
			return nil, err
		}
		app.Redis = rdb
	}

	if err := database.Seed(context.Background(), app.Store); err != nil {
		logger.Log.Error("Failed to seed default content", zap.Error(err))
		return nil, err
	}

	svcs, err := app.initServices(cfg)
	if err != nil {
		return nil, err
	}
	ctrls := app.initControllers(svcs)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("doglingo", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
			return nil, err
		}
	}

	app.registerRoutes(router, ctrls, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app, nil
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
