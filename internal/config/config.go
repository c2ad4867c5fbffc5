package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	RedisURL string

	JWTSecret string
	// CodeTTL bounds confirmation codes, TokenTTL bounds access tokens.
	CodeTTL  time.Duration
	TokenTTL time.Duration

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	MailFrom string

	RateLimitAuth  time.Duration
	RateLimitBurst time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		RedisURL: os.Getenv("REDIS_URL"),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),

		SMTPHost: getEnv("SMTP_HOST", "localhost"),
		SMTPPort: getEnv("SMTP_PORT", "587"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		MailFrom: getEnv("MAIL_FROM", "noreply@reviewhub.local"),
	}

	var err error
	cfg.CodeTTL, err = time.ParseDuration(getEnv("CONFIRMATION_CODE_TTL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CONFIRMATION_CODE_TTL: %w", err)
	}
	cfg.TokenTTL, err = time.ParseDuration(getEnv("ACCESS_TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ACCESS_TOKEN_TTL: %w", err)
	}
	cfg.RateLimitAuth, err = time.ParseDuration(getEnv("RATE_LIMIT_AUTH", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_AUTH: %w", err)
	}
	cfg.RateLimitBurst, err = time.ParseDuration(getEnv("RATE_LIMIT_BURST", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
