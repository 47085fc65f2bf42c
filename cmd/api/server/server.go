package server

import (
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	ginhandler "user-directory-service/internal/adapter/gin/handler"
	"user-directory-service/internal/adapter/gin/middleware"
	ginrouter "user-directory-service/internal/adapter/gin/router"
	"user-directory-service/internal/config"
)

// Server holds the HTTP server and its collaborators.
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	HTTP   *http.Server
}

// New creates the HTTP server with the full route table and middleware
// chain. redisClient may be nil.
func New(cfg *config.Config, l *zap.Logger, handler *ginhandler.UserHandler, redisClient *redis.Client) *Server {
	router := ginrouter.SetupRouter(handler, redisClient, middleware.RateLimiterConfig{
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		Enabled:           cfg.RateLimit.Enabled,
	}, l)

	return &Server{
		Config: cfg,
		Logger: l,
		HTTP: &http.Server{
			Addr:              ":" + cfg.App.HTTPPort,
			Handler:           router,
			ReadHeaderTimeout: 2 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Start runs the HTTP server until shutdown or failure.
func (s *Server) Start() error {
	s.Logger.Info("HTTP server running", zap.String("address", s.HTTP.Addr))
	return s.HTTP.ListenAndServe()
}
