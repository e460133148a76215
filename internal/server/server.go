package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atrium-chat/config"
	"atrium-chat/internal/handler"
	"atrium-chat/internal/middleware"
	"atrium-chat/internal/redis"
	"atrium-chat/internal/transport/httpdto"
	"atrium-chat/pkg/database"
	"atrium-chat/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Rooms         *handler.RoomHandler
	Messages      *handler.MessageHandler
	Threads       *handler.ThreadHandler
	Notifications *handler.NotificationHandler
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.AppPort),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

func (s *Server) SetupRoutes(handlers *Handlers, limiter *redis.RateLimiter) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(); err != nil {
			c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "UNHEALTHY"))
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	})

	auth := middleware.AuthMiddleware(s.config.JWTSecret)
	postLimit := middleware.MessageRateLimitMiddleware(limiter)

	v1 := s.engine.Group("/v1", auth)
	{
		v1.GET("/rooms", handlers.Rooms.List)
		v1.POST("/rooms", handlers.Rooms.Create)
		v1.GET("/rooms/:id", handlers.Rooms.Get)
		v1.POST("/rooms/:id/members", handlers.Rooms.AddMember)

		v1.GET("/rooms/:id/messages", handlers.Messages.List)
		v1.POST("/rooms/:id/messages", postLimit, handlers.Messages.Post)

		v1.PATCH("/messages/:id", handlers.Messages.Edit)
		v1.DELETE("/messages/:id", handlers.Messages.Delete)
		v1.POST("/messages/:id/replies", postLimit, handlers.Messages.Reply)

		v1.GET("/threads/:id", handlers.Threads.Get)

		v1.GET("/notifications", handlers.Notifications.List)
		v1.POST("/notifications/:id/read", handlers.Notifications.MarkRead)
	}
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	if s.logger != nil {
		s.logger.Infof("Server is running on :%s", s.config.AppPort)
	}

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}

	return nil
}
