package config

import (
	"os"
	"time"
)

// Relay tuning constants shared by the WebSocket pumps.
const (
	// WriteWait is the deadline for a single outbound frame write.
	WriteWait = 10 * time.Second
	// PongWait is how long a connection may stay silent before it is
	// considered dead.
	PongWait = 60 * time.Second
	// PingPeriod must be shorter than PongWait.
	PingPeriod = (PongWait * 9) / 10
	// MaxMessageSize caps inbound frame size in bytes.
	MaxMessageSize = 4096
	// SendBufferSize is the per-connection outbound queue. When it is full
	// further events for that connection are dropped rather than blocking
	// the relay.
	SendBufferSize = 256
)

// Config collects everything read from the environment at startup.
type Config struct {
	HTTPAddr    string
	PostgresDSN string
	RedisAddr   string
	JWTSecret   string
	BotToken    string // empty disables the Telegram push gateway
}

// Load reads the configuration from environment variables, applying the
// local-development defaults used by docker-compose.
func Load() Config {
	return Config{
		HTTPAddr:    getenv("HTTP_ADDR", ":9001"),
		PostgresDSN: getenv("POSTGRES_DSN", "host=localhost user=user password=password dbname=sparmatch port=5432 sslmode=disable"),
		RedisAddr:   getenv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:   getenv("JWT_SECRET", "dev-only-secret"),
		BotToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
