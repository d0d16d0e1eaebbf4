package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chatroom-backend/internal/cache"
	"chatroom-backend/internal/config"
	"chatroom-backend/internal/database"
	"chatroom-backend/internal/handler"
	"chatroom-backend/internal/middleware"
	"chatroom-backend/internal/repository"
	"chatroom-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()

	if cfg.IsProduction() && cfg.UsingDevSecret() {
		log.Fatal("JWT_SECRET must be set in production")
	}

	// Database
	db, err := database.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(context.Background(), db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations applied successfully")

	// Optional room-list cache
	var roomListCache *cache.RoomListCache
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		roomListCache = cache.NewRoomListCache(rdb, 10*time.Second)
		log.Println("Room-list cache enabled")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewChatroomRepository(db)

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	roomSvc := service.NewChatroomService(roomRepo, userRepo, roomListCache)

	// Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		BodyLimit:    256 * 1024,
	})

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// Health
	healthH := handler.NewHealthHandler(db)
	app.Get("/health", healthH.Health)
	app.Get("/ready", healthH.Ready)

	handler.Register(app, handler.Routes{
		Auth:      handler.NewAuthHandler(authSvc),
		Chatrooms: handler.NewChatroomHandler(roomSvc),
		Tokens:    authSvc,
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	log.Printf("Chatroom backend running on :%s (%s)", cfg.Port, cfg.Env)

	<-quit
	log.Println("Shutting down...")
	_ = app.ShutdownWithTimeout(5 * time.Second)
	log.Println("Server stopped")
}
