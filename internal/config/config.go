package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Google   GoogleConfig
	Calendar CalendarConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	ActivityLogPath    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
}

type AIConfig struct {
	LLMProvider           string // "gemini" or "ollama"
	LLMModel              string // e.g. "gemini-2.5-flash", "llama3"
	LLMBaseURL            string // optional override of the provider endpoint
	OllamaBaseURL         string
	ExtractionTemperature float64
	SynthesisTemperature  float64
	RequestTimeoutSeconds int
}

// GoogleConfig holds the OAuth client used to refresh calendar access tokens.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type CalendarConfig struct {
	DefaultCalendarID     string
	CredentialStore       string // "memory" | "redis" | "postgres"
	CredentialTTLHours    int    // 0 keeps credentials until replaced
	PreviewSize           int
	DeliveryTimeoutSecond int
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "5000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			ActivityLogPath:    getEnv("ACTIVITY_LOG_PATH", "logs/activity.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_AI_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:           getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:              getEnv("LLM_MODEL", "gemini-2.5-flash"),
			LLMBaseURL:            getEnv("LLM_BASE_URL", ""),
			OllamaBaseURL:         getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			ExtractionTemperature: getEnvAsFloat("AI_EXTRACTION_TEMPERATURE", 0.2),
			SynthesisTemperature:  getEnvAsFloat("AI_SYNTHESIS_TEMPERATURE", 0.7),
			RequestTimeoutSeconds: getEnvAsInt("AI_REQUEST_TIMEOUT_SECONDS", 90),
		},
		Google: GoogleConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		},
		Calendar: CalendarConfig{
			DefaultCalendarID:     getEnv("CALENDAR_DEFAULT_ID", "primary"),
			CredentialStore:       getEnv("CALENDAR_CREDENTIAL_STORE", "memory"),
			CredentialTTLHours:    getEnvAsInt("CALENDAR_CREDENTIAL_TTL_HOURS", 0),
			PreviewSize:           getEnvAsInt("CALENDAR_PREVIEW_SIZE", 6),
			DeliveryTimeoutSecond: getEnvAsInt("CALENDAR_DELIVERY_TIMEOUT_SECONDS", 120),
		},
		Tracing: TracingConfig{
			Enabled:     getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "aedar-backend"),
		},
	}
}

// AiBaseURL returns the endpoint override for the configured provider.
func (c *Config) AiBaseURL() string {
	if c.Ai.LLMBaseURL != "" {
		return c.Ai.LLMBaseURL
	}
	if c.Ai.LLMProvider == "ollama" {
		return c.Ai.OllamaBaseURL
	}
	return ""
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
