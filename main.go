// @title DogLingo API
// @version 1.0
// @description Backend for the DogLingo dog-training learning app.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"log"

	"doglingo_backend/internal/app"
	"doglingo_backend/internal/config"
	"doglingo_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
	defer logger.Log.Sync()

	application.Run()
}
