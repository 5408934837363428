package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	LogLevel string
	// Seed gives each demo sign-in two weeks of sample history
	Seed bool

	// Advisory model configuration (OpenAI-compatible endpoint)
	AdvisoryAPIKey     string
	AdvisoryModel      string
	AdvisoryBaseURL    string
	AdvisoryTimeout    time.Duration
	AdvisoryMaxRetries int

	// Mock authentication
	AuthSecret   string
	AuthTokenTTL time.Duration

	// DefaultTimezone applies to users who sign in without one
	DefaultTimezone string

	SentryDSN string

	// Langfuse configuration
	LangfuseBaseURL     string
	LangfusePublicKey   string
	LangfuseSecretKey   string
	LangfuseEnv         string
	LangfusePromptLabel string
	PromptCacheDir      string
}

func Load() *Config {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Seed:     getEnv("SEED", "false") == "true",

		AdvisoryAPIKey:     getEnv("ADVISORY_API_KEY", ""),
		AdvisoryModel:      getEnv("ADVISORY_MODEL", "gemini-3-flash-preview"),
		AdvisoryBaseURL:    getEnv("ADVISORY_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/"),
		AdvisoryTimeout:    parseDuration(getEnv("ADVISORY_TIMEOUT", "30s"), 30*time.Second),
		AdvisoryMaxRetries: parseInt(getEnv("ADVISORY_MAX_RETRIES", "1"), 1),

		AuthSecret:   getEnv("AUTH_SECRET", "dev-secret-change-me"),
		AuthTokenTTL: parseDuration(getEnv("AUTH_TOKEN_TTL", "24h"), 24*time.Hour),

		DefaultTimezone: getEnv("DEFAULT_TIMEZONE", "UTC"),

		SentryDSN: getEnv("SENTRY_DSN", ""),

		LangfuseBaseURL:     getEnv("LANGFUSE_BASE_URL", ""),
		LangfusePublicKey:   getEnv("LANGFUSE_PUBLIC_KEY", ""),
		LangfuseSecretKey:   getEnv("LANGFUSE_SECRET_KEY", ""),
		LangfuseEnv:         getEnv("LANGFUSE_ENV", "development"),
		LangfusePromptLabel: getEnv("LANGFUSE_PROMPT_LABEL", "production"),
		PromptCacheDir:      getEnv("PROMPT_CACHE_DIR", ".prompts"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
