// Package config reads the service configuration from the environment. A .env
// file in the working directory is loaded first when present.
package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Render    RenderConfig
	Save      SaveConfig
	Refdata   RefdataConfig
	Dashboard DashboardConfig
	LogLevel  slog.Level
}

type ServerConfig struct {
	Port       string
	SessionTTL time.Duration
}

type DatabaseConfig struct {
	// URL is empty when persistence is disabled.
	URL           string
	RunMigrations bool
}

type RenderConfig struct {
	ChromePath string
	Timeout    time.Duration
	// Concurrency caps how many browser renders run at once.
	Concurrency int
}

// SaveConfig points the preview step at a save endpoint. An empty URL means
// the server's own /api/save-resume is used.
type SaveConfig struct {
	URL      string
	Timeout  time.Duration
	Attempts int
}

type RefdataConfig struct {
	Dir string
}

type DashboardConfig struct {
	// DataFile is a JSON users file; when empty, users come from the database.
	DataFile string
}

// Load reads .env (if any) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Port:       getEnv("PORT", "8080"),
			SessionTTL: getEnvAsDuration("SESSION_TTL", 2*time.Hour),
		},
		Database: DatabaseConfig{
			URL:           getEnv("DATABASE_URL", ""),
			RunMigrations: getEnvAsBool("RUN_MIGRATIONS", true),
		},
		Render: RenderConfig{
			ChromePath:  getEnv("CHROME_PATH", ""),
			Timeout:     getEnvAsDuration("RENDER_TIMEOUT", 60*time.Second),
			Concurrency: getEnvAsInt("RENDER_CONCURRENCY", 2),
		},
		Save: SaveConfig{
			URL:      getEnv("SAVE_URL", ""),
			Timeout:  getEnvAsDuration("SAVE_TIMEOUT", 10*time.Second),
			Attempts: getEnvAsInt("SAVE_ATTEMPTS", 3),
		},
		Refdata: RefdataConfig{
			Dir: getEnv("REFDATA_DIR", "data"),
		},
		Dashboard: DashboardConfig{
			DataFile: getEnv("DASHBOARD_DATA", ""),
		},
		LogLevel: parseLevel(getEnv("LOG_LEVEL", "info")),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		v, err := strconv.Atoi(value)
		if err != nil {
			slog.Warn("invalid int env var, using default", "key", key, "error", err)
			return defaultValue
		}
		return v
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		v, err := strconv.ParseBool(value)
		if err != nil {
			slog.Warn("invalid bool env var, using default", "key", key, "error", err)
			return defaultValue
		}
		return v
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		v, err := time.ParseDuration(value)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "error", err)
			return defaultValue
		}
		return v
	}
	return defaultValue
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}
