package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config carries everything cmd/api needs to bootstrap. All values come
// from the environment; a .env file is honored when present.
type Config struct {
	DatabaseURL  string
	RedisAddr    string
	RedisPass    string
	MongoURI     string
	MongoDB      string
	JWTSecret    string
	HTTPAddr     string
	MediaBaseURL string
}

// Load reads configuration from the environment. DATABASE_URL and
// JWT_SECRET are required; everything else has a local-dev default.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using system environment")
	}

	cfg := Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisAddr:    getenv("REDIS_ADDR", "localhost:6379"),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		MongoURI:     getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      getenv("MONGO_DB", "luxestate"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		HTTPAddr:     ":" + getenv("PORT", "8080"),
		MediaBaseURL: getenv("MEDIA_BASE_URL", "http://localhost:8080"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("config: DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("config: JWT_SECRET is required")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
