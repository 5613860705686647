package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

type Config struct {
	DBPath       string
	StoreBackend string
	StoreFile    string
	StoreKey     string
	OutputDir    string
	PageSize     int

	Timezone   string
	LogLevel   string
	LogConsole bool

	ReminderCron       string
	ReminderAutoExport bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:       getEnv("DB_PATH", filepath.Join(cwd, "data", "bookings.db")),
		StoreBackend: strings.ToLower(strings.TrimSpace(getEnv("STORE_BACKEND", BackendSQLite))),
		StoreFile:    getEnv("STORE_FILE", filepath.Join(cwd, "data", "bookingData.json")),
		StoreKey:     getEnv("STORE_KEY", "bookingData"),
		OutputDir:    getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
		PageSize:     getEnvInt("PAGE_SIZE", 10),

		Timezone:   getEnv("APP_TIMEZONE", "Local"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogConsole: getEnvBool("LOG_CONSOLE", true),

		ReminderCron:       getEnv("REMINDER_CRON", "0 0 8 * * *"),
		ReminderAutoExport: getEnvBool("REMINDER_AUTO_EXPORT", false),
	}

	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	if cfg.StoreBackend != BackendSQLite && cfg.StoreBackend != BackendFile {
		return Config{}, fmt.Errorf("unsupported STORE_BACKEND: %s", cfg.StoreBackend)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
