// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/nellermoe/storybridge-backend/internal/graph"
)

// Config holds everything the binaries need to start.
type Config struct {
	HTTPAddr    string
	LogLevel    string
	Graph       graph.Config
	SeedWorkers int
}

// Load reads configuration from the environment. A missing .env file is not
// an error; explicit environment variables always win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Graph: graph.Config{
			URI:            getEnv("NEO4J_URI", "bolt://localhost:7687"),
			Database:       getEnv("NEO4J_DATABASE", ""),
			Username:       getEnv("NEO4J_USERNAME", ""),
			Password:       getEnv("NEO4J_PASSWORD", ""),
			MaxConnections: getEnvInt("NEO4J_MAX_CONNECTIONS", 25),
		},
		SeedWorkers: getEnvInt("SEED_WORKERS", 4),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
