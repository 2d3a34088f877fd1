// Package config provides configuration for the chat backend.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the backend configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// Upstream generation service
	OllamaBaseURL string
	DefaultModel  string

	// Search augmentation
	TavilyBaseURL string
	TavilyAPIKey  string

	// Context window
	ContextCharLimit int

	// Timeouts
	LLMTimeout   time.Duration
	TitleTimeout time.Duration

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:         getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:      getEnv("DATABASE_URL", "file:chat_history.db?cache=shared&mode=rwc"),
		OllamaBaseURL:    getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		DefaultModel:     getEnv("DEFAULT_MODEL", "gemma3:4b"),
		TavilyBaseURL:    getEnv("TAVILY_BASE_URL", "https://api.tavily.com"),
		TavilyAPIKey:     getEnv("TAVILY_API_KEY", ""),
		ContextCharLimit: getEnvInt("CONTEXT_CHAR_LIMIT", 15000),
		LLMTimeout:       time.Duration(getEnvInt("LLM_TIMEOUT_MS", 300000)) * time.Millisecond,
		TitleTimeout:     time.Duration(getEnvInt("TITLE_TIMEOUT_MS", 15000)) * time.Millisecond,
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
