package config

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// Config holds all application configuration
type Config struct {
	// "development" or "production"
	Env string

	// ProjectsDir is the directory scanned for transcript sources.
	// Each Claude Code project directory holds one JSONL file per session.
	ProjectsDir string

	// CacheDir holds the parsed-entry cache database.
	CacheDir string

	// CacheVersionTag invalidates all prior cache entries when changed.
	CacheVersionTag string

	// GapSeconds is the default silence threshold for span segmentation.
	GapSeconds int

	// LogLevel overrides the default log level when set.
	LogLevel string
}

var (
	cfg  *Config
	once sync.Once
)

// Get returns the global configuration (singleton)
func Get() *Config {
	once.Do(func() {
		cfg = load()
	})
	return cfg
}

// load reads configuration from environment variables
func load() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Env: getEnv("ENV", "development"),

		ProjectsDir: getEnv("CCL_PROJECTS_DIR", filepath.Join(homeDir, ".claude", "projects")),
		CacheDir:    getEnv("CCL_CACHE_DIR", filepath.Join(homeDir, ".cache", "claude-code-log")),

		CacheVersionTag: getEnv("CCL_CACHE_TAG", ""),

		GapSeconds: getEnvInt("CCL_GAP_SECONDS", 600),
		LogLevel:   getEnv("CCL_LOG_LEVEL", ""),
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env != "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
