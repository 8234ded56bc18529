package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port           string
	AppEnv         string
	DatabaseURL    string
	DatabaseConfig DatabaseConfig
	GeminiAPIKey   string
}

// DatabaseConfig contains the Postgres connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ no .env file found, using environment variables")
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("PGHOST", "localhost"),
		Port:     getEnv("PGPORT", "5432"),
		User:     getEnv("PGUSER", "huslr"),
		Password: getEnv("PGPASSWORD", "huslr"),
		Name:     getEnv("PGDATABASE", "huslr"),
		SSLMode:  getEnv("PGSSLMODE", "disable"),
	}

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name, dbConfig.SSLMode)

	cfg := &Config{
		Port:           getEnv("PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "production"),
		DatabaseURL:    dbURL,
		DatabaseConfig: dbConfig,
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
	}

	// Moderation fails open when the provider is unreachable, so a missing
	// key degrades the service instead of stopping it.
	if cfg.GeminiAPIKey == "" {
		log.Println("⚠️ GEMINI_API_KEY is not set; moderation and the AI assistant are disabled")
	}

	return cfg
}

// getEnv returns the environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
