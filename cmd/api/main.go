package main

import (
	"log"

	"atrium-chat/config"
	"atrium-chat/internal/domain/message"
	"atrium-chat/internal/domain/notification"
	"atrium-chat/internal/domain/room"
	"atrium-chat/internal/domain/thread"
	"atrium-chat/internal/handler"
	"atrium-chat/internal/proxy"
	"atrium-chat/internal/redis"
	"atrium-chat/internal/repository"
	"atrium-chat/internal/server"
	"atrium-chat/internal/services"
	"atrium-chat/pkg/database"
	"atrium-chat/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	logMode := logger.DevelopmentMode
	if cfg.AppMode == server.ReleaseMode {
		logMode = logger.ProductionMode
	}
	l := logger.New(logMode)
	logger.SetGlobalLogger(l)

	database.Connect(cfg)
	if err := database.DB.AutoMigrate(
		&room.Room{},
		&room.Membership{},
		&message.Message{},
		&message.Attachment{},
		&message.Mention{},
		&thread.Thread{},
		&notification.Notification{},
	); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	redis.Initialize(redis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
	})
	cache := redis.NewCacheStore(redis.GetClient(), redis.DefaultCacheConfig())
	limiter := redis.NewRateLimiter(redis.GetClient(), redis.DefaultRateLimitConfig())

	roomRepo := repository.NewRoomRepository(database.DB)
	messageRepo := repository.NewMessageRepository(database.DB)
	threadRepo := repository.NewThreadRepository(database.DB)
	notificationRepo := repository.NewNotificationRepository(database.DB)
	userRepo := repository.NewUserRepository(database.DB)

	access := proxy.NewAccessControl(roomRepo, cache)
	directory := services.NewDirectoryService(userRepo, cache)
	notifications := services.NewNotificationService(notificationRepo)
	mentions := services.NewMentionService(messageRepo, directory, notifications, l)
	messages := services.NewMessageService(messageRepo, access, mentions, l)
	threads := services.NewThreadService(threadRepo, messageRepo, messages, notifications, access, l)
	rooms := services.NewRoomService(roomRepo, cache)

	messageHandler := handler.NewMessageHandler(messages, threads, directory)
	handlers := &server.Handlers{
		Rooms:         handler.NewRoomHandler(rooms),
		Messages:      messageHandler,
		Threads:       handler.NewThreadHandler(threads, messageHandler),
		Notifications: handler.NewNotificationHandler(notifications),
	}

	srv := server.New(cfg, l)
	srv.SetupRoutes(handlers, limiter)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}
