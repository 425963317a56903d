// Package config loads process configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Provider ProviderConfig
	Arcade   ArcadeConfig
	Pipeline PipelineConfig
}

type AppConfig struct {
	Port               string
	CorsAllowedOrigins string
	UploadsDir         string
	Environment        string
	MaxUploadBytes     int
}

type ProviderConfig struct {
	// Vision selects the vision model backend: "openai" or "anthropic".
	Vision          string
	OpenAIAPIKey    string
	AnthropicAPIKey string
}

type ArcadeConfig struct {
	APIKey   string
	BaseURL  string
	ToolName string
	UserID   string
}

type PipelineConfig struct {
	SessionTTL   time.Duration
	PacingDelay  time.Duration
	FetchTimeout time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			UploadsDir:         getEnv("UPLOADS_DIR", "uploads"),
			Environment:        getEnv("GO_ENV", "development"),
			MaxUploadBytes:     getEnvAsInt("MAX_UPLOAD_BYTES", 10*1024*1024),
		},
		Provider: ProviderConfig{
			Vision:          getEnv("VISION_PROVIDER", "openai"),
			OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
			AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		},
		Arcade: ArcadeConfig{
			APIKey:   getEnv("ARCADE_API_KEY", ""),
			BaseURL:  getEnv("ARCADE_BASE_URL", "https://api.arcade.dev"),
			ToolName: getEnv("ARCADE_TOOL_NAME", "GoogleShopping.SearchProducts@3.0.0"),
			UserID:   getEnv("ARCADE_USER_ID", "default_user"),
		},
		Pipeline: PipelineConfig{
			SessionTTL:   getEnvAsDuration("SESSION_TTL", time.Hour),
			PacingDelay:  getEnvAsDuration("PACING_DELAY", 500*time.Millisecond),
			FetchTimeout: getEnvAsDuration("IMAGE_FETCH_TIMEOUT", 2*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
