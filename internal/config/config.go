package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"valorant-stats/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	AnalysisURL     string
	AnalysisAPIKey  string
	DBPath          string
	ServerPort      string
	LogLevel        string
	SessionTTL      time.Duration
	SessionCapacity int
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", constants.SessionTTL.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	sessionCapacity, err := strconv.Atoi(getEnv("SESSION_CAPACITY", strconv.Itoa(constants.SessionCapacity)))
	if err != nil || sessionCapacity <= 0 {
		return nil, fmt.Errorf("invalid SESSION_CAPACITY %q", os.Getenv("SESSION_CAPACITY"))
	}

	cfg := &Config{
		AnalysisURL:     getEnv("ANALYSIS_API_URL", "http://localhost:5000"),
		AnalysisAPIKey:  getEnv("ANALYSIS_API_KEY", ""),
		DBPath:          getEnv("DB_PATH", "matchstats.db"),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		SessionTTL:      sessionTTL,
		SessionCapacity: sessionCapacity,
	}

	if u, err := url.Parse(cfg.AnalysisURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("ANALYSIS_API_URL must be an absolute URL, got %q", cfg.AnalysisURL)
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	logger.Info().
		Str("analysis_url", cfg.AnalysisURL).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Dur("session_ttl", cfg.SessionTTL).
		Int("session_capacity", cfg.SessionCapacity).
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
