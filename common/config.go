package common

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	SqliteDB      string
	SessionSecret string
	// AdminPassword unlocks the editor. It is a shared string compared on
	// the server and offers no real protection.
	AdminPassword string
	SanitizeHTML  bool
	Debug         bool
	AutosaveDelay time.Duration
	// LogFile, when set, receives a JSON copy of the log, rotated by size.
	LogFile string
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Couldn't read .env file", slog.Any("err", err))
	}

	return Config{
		Port:          getEnv("PORT", "8080"),
		SqliteDB:      getEnv("SQLITE_DB", ""),
		SessionSecret: getEnv("SESSION_SECRET", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		SanitizeHTML:  getBool("SANITIZE_HTML", true),
		Debug:         getBool("DEBUG", false),
		AutosaveDelay: getDuration("AUTOSAVE_DELAY", 2*time.Second),
		LogFile:       getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		slog.Warn("Invalid boolean in environment", slog.String("key", key))
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil || v <= 0 {
		slog.Warn("Invalid duration in environment", slog.String("key", key))
		return fallback
	}
	return v
}
