package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	FeedBaseURL  string
	FeedAPIKey   string
	DBPath       string
	ServerPort   string
	LogLevel     string
	RecomputeTTL time.Duration
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		FeedBaseURL:  getEnv("FEED_BASE_URL", "https://feed.owcs-nexus.gg/v1"),
		FeedAPIKey:   getEnv("FEED_API_KEY", ""),
		DBPath:       getEnv("DB_PATH", "nexus.db"),
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		RecomputeTTL: 10 * time.Minute,
	}

	if cfg.FeedAPIKey == "" {
		return nil, fmt.Errorf("FEED_API_KEY is required")
	}

	logger.Info().
		Str("feed_base_url", cfg.FeedBaseURL).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Dur("recompute_ttl", cfg.RecomputeTTL).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
