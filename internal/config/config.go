package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Safety   SafetyConfig
	Session  SessionConfig
	Search   SearchConfig
	Cache    CacheConfig
	Catalog  CatalogConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	RateLimitPerMinute int
	OtelEnabled        bool
	EventsTopic        string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	LLMProvider   string // "gemini", "ollama" or "none"
	LLMModel      string
	GeminiAPIKey  string
	OllamaBaseURL string
	LLMTimeout    time.Duration
	// IntentFallback is "search" (fixed Search/0.5) or "heuristic".
	IntentFallback string
}

type SafetyConfig struct {
	LLMEnabled          bool
	ConfidenceThreshold float64
	Timeout             time.Duration
}

type SessionConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
	MaxHistory      int
}

type SearchConfig struct {
	TokenOverlap float64
}

type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type CatalogConfig struct {
	Source string // "embedded", "file" or "postgres"
	Path   string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 30),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
			EventsTopic:        getEnv("EVENTS_TOPIC", "turn.completed"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			LLMProvider:    strings.ToLower(getEnv("LLM_PROVIDER", "gemini")),
			LLMModel:       getEnv("LLM_MODEL", ""),
			GeminiAPIKey:   getEnv("GOOGLE_GEMINI_API_KEY", ""),
			OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMTimeout:     getEnvAsDuration("LLM_TIMEOUT", 20*time.Second),
			IntentFallback: strings.ToLower(getEnv("INTENT_FALLBACK", "search")),
		},
		Safety: SafetyConfig{
			LLMEnabled:          getEnvAsBool("SAFETY_LLM_ENABLED", true),
			ConfidenceThreshold: getEnvAsFloat("SAFETY_CONFIDENCE_THRESHOLD", 0.7),
			Timeout:             getEnvAsDuration("SAFETY_TIMEOUT", 3*time.Second),
		},
		Session: SessionConfig{
			TTL:             getEnvAsDuration("SESSION_TTL", time.Hour),
			CleanupInterval: getEnvAsDuration("SESSION_CLEANUP_INTERVAL", 5*time.Minute),
			MaxHistory:      getEnvAsInt("SESSION_MAX_HISTORY", 50),
		},
		Search: SearchConfig{
			TokenOverlap: getEnvAsFloat("SEARCH_TOKEN_OVERLAP", 0.6),
		},
		Cache: CacheConfig{
			Enabled: getEnvAsBool("CACHE_ENABLED", false),
			TTL:     getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		},
		Catalog: CatalogConfig{
			Source: strings.ToLower(getEnv("CATALOG_SOURCE", "embedded")),
			Path:   getEnv("CATALOG_PATH", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("90s") or plain seconds ("90").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
