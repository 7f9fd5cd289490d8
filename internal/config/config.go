package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr string
	LogLevel   string

	// Remote marketplace backend, e.g.
	// http://0.0.0.0:8080/StudentDesignerMarketplace
	BackendURL string

	// HS256 secret for the client token cookie.
	JWTSecret []byte

	// Durable storage. DatabaseURL selects Postgres, RedisAddr selects
	// Redis, otherwise SQLitePath is used.
	DatabaseURL string
	SQLitePath  string
	RedisAddr   string
	RedisPass   string

	KafkaBrokers []string
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		ServerAddr:   envDefault("SERVER_ADDR", ":8090"),
		LogLevel:     envDefault("LOG_LEVEL", "info"),
		BackendURL:   os.Getenv("BACKEND_URL"),
		JWTSecret:    []byte(os.Getenv("JWT_SECRET")),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		SQLitePath:   envDefault("SQLITE_PATH", "storefront.db"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisPass:    os.Getenv("REDIS_PASS"),
		KafkaBrokers: csv(os.Getenv("KAFKA_BROKERS")),
	}

	MustNonEmpty(cfg.BackendURL, "BACKEND_URL")
	MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	return cfg, nil
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func csv(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}
