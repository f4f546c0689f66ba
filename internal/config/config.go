package config

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

type Config struct {
	Addr        string
	Development bool
	LogLevel    string
	LogFile     string
	SessionTTL  time.Duration
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func New() *Config {
	development := getEnv("DEVELOPMENT", "0") != "0"

	sessionTTL := 24 * time.Hour
	if value, ok := os.LookupEnv("SESSION_TTL"); ok {
		if d, err := time.ParseDuration(value); err == nil {
			sessionTTL = d
		}
	}

	return &Config{
		Addr:        getEnv("ADDR", ":8080"),
		Development: development,
		LogLevel:    getEnv("LOG_LEVEL", ""),
		LogFile:     getEnv("LOG_FILE", ""),
		SessionTTL:  sessionTTL,
	}
}

func (c Config) Fields() logrus.Fields {
	return map[string]any{
		"addr":        c.Addr,
		"development": c.Development,
		"log_level":   c.LogLevel,
		"log_file":    c.LogFile,
		"session_ttl": c.SessionTTL.String(),
	}
}
