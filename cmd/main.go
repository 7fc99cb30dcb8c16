package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"sparmatch/backend/internal/api/handler"
	"sparmatch/backend/internal/config"
	"sparmatch/backend/internal/models"
	"sparmatch/backend/internal/notify"
	"sparmatch/backend/internal/relay"
	"sparmatch/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Conversation{},
		&models.Message{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

// setupGateway builds the offline push gateway. The gateway is a best-effort
// collaborator: a missing token or a failed Telegram handshake disables the
// offline fallback but never stops the relay from starting.
func setupGateway(cfg config.Config, s storage.Storage) notify.Gateway {
	if cfg.BotToken == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, offline push notifications disabled")
		return nil
	}

	gateway, err := notify.NewTelegramGateway(cfg.BotToken, s)
	if err != nil {
		log.Printf("Failed to start notification gateway, offline push disabled: %v", err)
		return nil
	}
	return gateway
}

func main() {
	log.Println("Starting SparMatch relay backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	db, rdb := setupDependencies(cfg)
	s := storage.NewService(db, rdb)
	gateway := setupGateway(cfg, s)

	registry := relay.NewRegistry(relay.NewPresence())
	router := relay.NewRouter(registry, s, gateway)

	r := gin.Default()
	h := handler.NewHandler(registry, router, s, []byte(cfg.JWTSecret))

	r.GET("/token", h.GetToken)
	r.GET("/ws", h.ServeWebSocket)
	r.GET("/chats/:userId", h.GetChatList)
	r.POST("/conversations/:conversationId/read", h.MarkRead)
	r.GET("/notifications/:userId", h.GetNotifications)

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Printf("Relay listening on %s", cfg.HTTPAddr)
	log.Fatal(server.ListenAndServe())
}
