package main

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	envBskyToken     = "BRANDPULSE_BSKY_TOKEN"
	envBskyBase      = "BRANDPULSE_BSKY_BASE"
	envNominatimBase = "BRANDPULSE_NOMINATIM_BASE"
	envUserAgent     = "BRANDPULSE_USER_AGENT"
)

// loadEnv loads the given env files. Variables already set in the process
// environment win.
func loadEnv(logger *log.Logger, files []string) {
	loaded := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			logger.Warn("failed to load env file", "file", file, "err", err)
			continue
		}
		loaded = append(loaded, file)
	}
	if len(loaded) == 0 {
		logger.Debug("no env files loaded; relying on process environment")
		return
	}
	logger.Debug("loaded env files", "files", strings.Join(loaded, ", "))
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
