package main

import (
	"fmt"
	"os"

	"github.com/mkrishnan-neu/user-directory/internal/api"
	"github.com/mkrishnan-neu/user-directory/internal/config"
	"github.com/mkrishnan-neu/user-directory/internal/database"
	"github.com/mkrishnan-neu/user-directory/internal/database/repository"
	"github.com/mkrishnan-neu/user-directory/internal/database/service"
	"github.com/mkrishnan-neu/user-directory/internal/handler"
	"github.com/mkrishnan-neu/user-directory/internal/logger"
	"github.com/mkrishnan-neu/user-directory/internal/middleware"
)

func main() {
	// 1. Config
	cfg := config.LoadConfig()

	// 2. Logger
	appLogger := logger.New(cfg)

	appLogger.Info("🚀 [Go] Starting User Directory...",
		"environment", cfg.AppEnv,
	)

	// 3. Connect to Database
	db, err := database.Connect(cfg, appLogger)
	if err != nil {
		appLogger.Error("❌ Failed to connect to database", "error", err)
		os.Exit(1)
	}

	// 4. Initialize Repository & Service
	userRepo := repository.NewUserRepository(db)
	userService := service.NewUserService(userRepo, cfg, appLogger)

	// 5. Initialize Rate Limiter
	rateLimiter, err := middleware.NewRateLimiter(cfg, appLogger)
	if err != nil {
		appLogger.Warn("⚠️ Failed to connect to Redis, using no-op rate limiter", "error", err)
		rateLimiter = middleware.NewNoOpRateLimiter(appLogger)
	}
	defer rateLimiter.Close()

	// 6. Initialize Handler & Router
	userHandler := handler.NewUserHandler(userService, appLogger)
	r := api.SetupRouter(userHandler, rateLimiter, appLogger)

	// 7. Start HTTP Server
	addr := fmt.Sprintf(":%s", cfg.ApiServicePort)
	appLogger.Info("🌍 [Go] HTTP Server running on port...", "port", addr)
	if err := r.Run(addr); err != nil {
		appLogger.Error("❌ HTTP Server failed to start", "error", err)
		os.Exit(1)
	}
}
