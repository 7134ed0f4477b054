package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr           string
	DatabaseURL        string
	DatabaseName       string
	RedisAddr          string
	RedisPassword      string
	SessionTTL         time.Duration
	CORSAllowedOrigins []string
}

func Load() Config {
	return Config{
		HTTPAddr:           getenv("HTTP_ADDR", ":8000"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		DatabaseName:       getenv("DATABASE_NAME", "school"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		SessionTTL:         getenvDuration("SESSION_TTL", 24*time.Hour),
		CORSAllowedOrigins: getenvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

func getenvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
