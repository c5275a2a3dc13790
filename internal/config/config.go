package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Ai         AIConfig
	Simulation SimulationConfig
	Speech     SpeechConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	SessionLogFilePath string
	CorsAllowedOrigins string
	NatsURL            string
	MaxUploadMB        int
}

type AIConfig struct {
	LLMProvider     string // "ollama", "azure" or "none"
	LLMModel        string // e.g. "llama3", "qwen2.5"
	OllamaBaseURL   string
	AzureEndpoint   string
	AzureDeployment string
	AzureAPIKey     string
}

type SimulationConfig struct {
	MaxTurns         int
	ContextMode      string // "snippet" or "full"
	AnswerDelaySec   int
	FollowUpDelaySec int
}

type SpeechConfig struct {
	AzureKey    string
	AzureRegion string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			SessionLogFilePath: getEnv("SESSION_LOG_FILE_PATH", "sessions.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			MaxUploadMB:        getEnvAsInt("MAX_UPLOAD_MB", 10),
		},
		Ai: AIConfig{
			LLMProvider:     getEnv("LLM_PROVIDER", "none"),
			LLMModel:        getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL:   getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			AzureEndpoint:   getEnv("AZURE_OPENAI_ENDPOINT", ""),
			AzureDeployment: getEnv("AZURE_OPENAI_DEPLOYMENT", ""),
			AzureAPIKey:     getEnv("AZURE_OPENAI_API_KEY", ""),
		},
		Simulation: SimulationConfig{
			MaxTurns:         getEnvAsInt("SIM_MAX_TURNS", 1),
			ContextMode:      getEnv("SIM_CONTEXT_MODE", "snippet"),
			AnswerDelaySec:   getEnvAsInt("SIM_ANSWER_DELAY_SEC", 2),
			FollowUpDelaySec: getEnvAsInt("SIM_FOLLOWUP_DELAY_SEC", 3),
		},
		Speech: SpeechConfig{
			AzureKey:    getEnv("AZURE_SPEECH_KEY", ""),
			AzureRegion: getEnv("AZURE_SPEECH_REGION", "japaneast"),
		},
	}
}

func (c SimulationConfig) AnswerDelay() time.Duration {
	return time.Duration(c.AnswerDelaySec) * time.Second
}

func (c SimulationConfig) FollowUpDelay() time.Duration {
	return time.Duration(c.FollowUpDelaySec) * time.Second
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
