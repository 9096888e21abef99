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
	Ai       AIConfig
	Topics   TopicConfig
}

type AppConfig struct {
	Name               string
	Version            string
	Description        string
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	OllamaBaseURL       string
	EmbeddingModel      string
	EmbeddingDimensions int
	LLMProvider         string // "ollama" for now
	LLMModel            string // e.g. "llama3", "qwen2.5"
}

type TopicConfig struct {
	EmbedDocument string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Name:               getEnv("APP_NAME", "Quiz Generation API"),
			Version:            getEnv("APP_VERSION", "1.0.0"),
			Description:        getEnv("APP_DESCRIPTION", "Document-driven quiz generation with conversational memory"),
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			OllamaBaseURL:       getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			EmbeddingModel:      getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			EmbeddingDimensions: getEnvAsInt("EMBEDDING_DIMENSIONS", 768),
			LLMProvider:         getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:            getEnv("LLM_MODEL", "llama3"),
		},
		Topics: TopicConfig{
			EmbedDocument: getEnv("EMBED_DOCUMENT_TOPIC_NAME", "EMBED_DOCUMENT_CONTENT"),
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
