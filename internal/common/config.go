package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database   DatabaseConfig
	Paths      PathsConfig
	LLM        LLMConfig
	Embeddings EmbeddingsConfig
}

// DatabaseConfig holds database-related configuration. DSN selects the
// driver: a postgres:// URL uses pgx, anything else is treated as a
// SQLite path.
type DatabaseConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// PathsConfig holds the input and output locations of an extraction run
type PathsConfig struct {
	PDFDir         string
	IndexFile      string
	OutputFile     string
	EmbeddingsFile string
	SchoolYear     string
}

// LLMConfig holds Anthropic API configuration
type LLMConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// EmbeddingsConfig holds embeddings endpoint configuration
type EmbeddingsConfig struct {
	BaseURL    string
	APIKey     string
	Model      string
	Dimensions int
	Timeout    time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", "sipdash.db"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_CONNS", 10),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
		},
		Paths: PathsConfig{
			PDFDir:         getEnv("SIP_PDF_DIR", "."),
			IndexFile:      getEnv("SIP_INDEX_FILE", "school_index.json"),
			OutputFile:     getEnv("SIP_OUTPUT_FILE", "schools_extracted.json"),
			EmbeddingsFile: getEnv("SIP_EMBEDDINGS_FILE", "goals_embeddings.json"),
			SchoolYear:     getEnv("SIP_SCHOOL_YEAR", "2025-2026"),
		},
		LLM: LLMConfig{
			BaseURL: getEnv("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
			APIKey:  getEnv("ANTHROPIC_API_KEY", ""),
			Model:   getEnv("ANTHROPIC_MODEL", "claude-haiku-4-5-20251001"),
			Timeout: getEnvAsDuration("ANTHROPIC_TIMEOUT", 45*time.Second),
		},
		Embeddings: EmbeddingsConfig{
			BaseURL:    getEnv("EMBEDDINGS_BASE_URL", "http://localhost:8081"),
			APIKey:     getEnv("EMBEDDINGS_API_KEY", ""),
			Model:      getEnv("EMBEDDINGS_MODEL", "all-MiniLM-L6-v2"),
			Dimensions: getEnvAsInt("EMBEDDINGS_DIMENSIONS", 384),
			Timeout:    getEnvAsDuration("EMBEDDINGS_TIMEOUT", 45*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
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

// ValidateForExtraction checks the settings an extraction run cannot start
// without. The API key is not among them: extraction degrades to defaults
// when the model is unreachable.
func (c *Config) ValidateForExtraction() error {
	if c.Paths.IndexFile == "" {
		return NewAppError("CONFIG_ERROR", "SIP_INDEX_FILE is required", ErrInvalidInput)
	}
	if c.Paths.PDFDir == "" {
		return NewAppError("CONFIG_ERROR", "SIP_PDF_DIR is required", ErrInvalidInput)
	}
	return nil
}
