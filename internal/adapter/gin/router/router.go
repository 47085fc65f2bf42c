package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"user-directory-service/internal/adapter/gin/handler"
	"user-directory-service/internal/adapter/gin/middleware"
)

// SetupRouter configures and returns a Gin router with all routes and
// middleware. redisClient may be nil, which disables rate limiting.
func SetupRouter(
	userHandler *handler.UserHandler,
	redisClient *redis.Client,
	rateLimit middleware.RateLimiterConfig,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.RateLimiter(redisClient, rateLimit, log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "user-directory-service",
		})
	})

	api := router.Group("/api")
	{
		users := api.Group("/users")
		{
			users.GET("", userHandler.SearchUsers)
			users.POST("", userHandler.CreateUser)
			users.POST("/upload", userHandler.UploadUsers)
			users.GET("/search/by-domain", userHandler.GetUsersByDomain)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}
	}

	return router
}
