package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/mkrishnan-neu/user-directory/internal/handler"
	"github.com/mkrishnan-neu/user-directory/internal/middleware"
)

func SetupRouter(
	userHandler *handler.UserHandler,
	rateLimiter middleware.RateLimiter,
	logger *slog.Logger,
) *gin.Engine {
	r := gin.Default()
	r.SetTrustedProxies(nil)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	userGroup := r.Group("/user")
	userGroup.Use(middleware.RequestLimit(rateLimiter, logger))
	{
		userGroup.POST("/create", userHandler.CreateUser)
		userGroup.PUT("/edit", userHandler.EditUser)
		userGroup.DELETE("/delete", userHandler.DeleteUser)
		userGroup.GET("/getAll", userHandler.GetAllUsers)
	}

	return r
}
