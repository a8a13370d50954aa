// Package config loads the service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/piwi3910/cutplan/internal/model"
)

// Config holds the complete application configuration.
type Config struct {
	Server ServerConfig
	Log    LogConfig
	Plan   PlanConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	CORSOrigins    []string
	RequestTimeout time.Duration
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string
	Pretty bool
}

// PlanConfig holds the limits and defaults applied to incoming jobs.
type PlanConfig struct {
	MaxPieces   int // per job, after quantity expansion
	DefaultKerf int
	MaxSheets   int // per group
	Workers     int // concurrent groups; 0 means GOMAXPROCS
}

// Load creates a Config from environment variables.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			CORSOrigins:    parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
			RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
		Plan: PlanConfig{
			MaxPieces:   getEnvInt("MAX_PIECES", 5000),
			DefaultKerf: getEnvInt("DEFAULT_KERF", 3),
			MaxSheets:   getEnvInt("MAX_SHEETS", model.DefaultMaxSheets),
			Workers:     getEnvInt("WORKERS", 0),
		},
	}
}

// Settings returns the cut settings a job starts from before its own
// overrides are applied.
func (p PlanConfig) Settings() model.CutSettings {
	s := model.DefaultSettings()
	if p.DefaultKerf >= 0 && p.DefaultKerf <= model.MaxKerf {
		s.Kerf = p.DefaultKerf
	}
	if p.MaxSheets > 0 {
		s.MaxSheets = p.MaxSheets
	}
	if p.Workers > 0 {
		s.Workers = p.Workers
	}
	return s
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseCORSOrigins(s string) []string {
	// Local development front-ends are always allowed.
	defaults := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	if s == "" {
		return defaults
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts)+len(defaults))
	result = append(result, defaults...)
	for _, p := range parts {
		if origin := strings.TrimSpace(p); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}
