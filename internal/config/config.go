// Package config provides application configuration loaded from environment
// variables with defaults and validation.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the bot.
type Config struct {
	// Telegram
	BotToken    string // TOKEN, required
	PollTimeout int    // GET_UPDATES_TIMEOUT, long-poll seconds

	// Storage
	DBBackend   string // DB_BACKEND: file|bolt|postgres
	DBFile      string // DB_FILE, file backend path
	BoltPath    string // BOLT_PATH, bolt backend path
	DatabaseURL string // DATABASE_URL, postgres backend DSN

	// Countdown loop
	Interval     time.Duration // UPDATE_INTERVAL between message edits
	InitialDelay time.Duration // INITIAL_DELAY before the first edit

	// Presentation
	Calendar string // CALENDAR: jalali|gregorian
	Timezone string // TIMEZONE, IANA name for target times
	Lang     string // LANG_CODE, reply language

	// Web
	Port string // PORT, status server

	// Logging
	LogLevel  string // LOG_LEVEL: debug|info|warn|error
	LogPretty bool   // LOG_PRETTY, console writer for dev
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables, applies defaults and
// validates the result.
func Load() (Config, error) {
	cfg := Config{
		BotToken:    os.Getenv("TOKEN"),
		PollTimeout: getint("GET_UPDATES_TIMEOUT", 30),

		DBBackend:   strings.ToLower(getenv("DB_BACKEND", "file")),
		DBFile:      getenv("DB_FILE", "data/countdowns.json"),
		BoltPath:    getenv("BOLT_PATH", "data/countdowns.db"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		Interval:     getdur("UPDATE_INTERVAL", 10*time.Second),
		InitialDelay: getdur("INITIAL_DELAY", time.Second),

		Calendar: strings.ToLower(getenv("CALENDAR", "jalali")),
		Timezone: getenv("TIMEZONE", "Asia/Tehran"),
		Lang:     getenv("LANG_CODE", "fa"),

		Port: getenv("PORT", "8080"),

		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),
	}

	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}

	if strings.TrimSpace(cfg.BotToken) == "" {
		return cfg, errors.New("TOKEN must not be empty")
	}
	switch cfg.DBBackend {
	case "file", "bolt", "postgres":
	default:
		return cfg, errors.New("DB_BACKEND must be one of: file, bolt, postgres")
	}
	if cfg.DBBackend == "postgres" && strings.TrimSpace(cfg.DatabaseURL) == "" {
		return cfg, errors.New("DATABASE_URL must not be empty with DB_BACKEND=postgres")
	}
	switch cfg.Calendar {
	case "jalali", "gregorian":
	default:
		return cfg, errors.New("CALENDAR must be one of: jalali, gregorian")
	}
	if cfg.Interval <= 0 || cfg.InitialDelay <= 0 {
		return cfg, errors.New("UPDATE_INTERVAL and INITIAL_DELAY must be positive durations")
	}
	if cfg.PollTimeout <= 0 {
		return cfg, errors.New("GET_UPDATES_TIMEOUT must be > 0")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}

	return cfg, nil
}

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
