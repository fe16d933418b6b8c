package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

type Config struct {
	Port        string
	FrontendURL string
	AppURL      string

	FinnhubAPIKey     string
	FinnhubRatePerMin int
	NewsCacheTTL      time.Duration

	LLMProvider     string
	AnthropicAPIKey string
	AnthropicModel  string
	OpenAIAPIKey    string
	OpenAIModel     string

	ResendAPIKey string
	EmailFrom    string

	CronSecret     string
	JWTSecret      string
	DigestCron     string
	DigestTimezone string

	LogFormat string
	LogLevel  string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		AppURL:      getEnv("APP_URL", "http://localhost:8080"),

		FinnhubAPIKey:     getEnv("FINNHUB_API_KEY", ""),
		FinnhubRatePerMin: getEnvAsInt("FINNHUB_RATE_PER_MIN", 60),
		NewsCacheTTL:      getEnvAsDuration("NEWS_CACHE_TTL", time.Hour),

		LLMProvider:     strings.ToLower(getEnv("LLM_PROVIDER", ProviderAnthropic)),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		EmailFrom:    getEnv("EMAIL_FROM", "Oh My Stock <onboarding@resend.dev>"),

		CronSecret:     getEnv("CRON_SECRET", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		DigestCron:     getEnv("DIGEST_CRON", "0 8 * * *"),
		DigestTimezone: getEnv("DIGEST_TIMEZONE", "Asia/Seoul"),

		LogFormat: getEnv("LOG_FORMAT", "json"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
