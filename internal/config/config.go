package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"home-services-server/internal/utils"
)

const defaultCacheTTL = 5 * time.Minute

type Config struct {
	Mongo       utils.MongoConfig
	MongoDBName string
	JWTSecret   string
	ServerPort  string
	RedisURL    string
	CacheTTL    time.Duration
}

func LoadConfig() (*Config, error) {
	// The .env file is optional; real deployments inject the environment.
	_ = godotenv.Load()

	cfg := &Config{
		Mongo: utils.MongoConfig{
			URI:      os.Getenv("MONGO_URI"),
			Host:     envOrDefault("MONGO_HOST", "localhost"),
			User:     os.Getenv("MONGO_USER"),
			Password: os.Getenv("MONGO_PASSWORD"),
		},
		MongoDBName: envOrDefault("MONGO_DBNAME", "home_services"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		ServerPort:  envOrDefault("SERVER_PORT", "8080"),
		RedisURL:    os.Getenv("REDIS_URL"),
		CacheTTL:    defaultCacheTTL,
	}

	port, err := strconv.Atoi(envOrDefault("MONGO_PORT", "27017"))
	if err != nil {
		return nil, errors.New("MONGO_PORT must be a number")
	}
	cfg.Mongo.Port = port

	if raw := os.Getenv("CACHE_TTL_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.New("CACHE_TTL_SECONDS must be a number")
		}
		cfg.CacheTTL = time.Duration(seconds) * time.Second
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
