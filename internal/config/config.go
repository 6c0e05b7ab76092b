package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Admin is the single platform administrator identity. It is loaded once at
// startup and handed to the credential service; nothing mutates it afterwards.
type Admin struct {
	Email      string
	AccessCode string
}

// Config holds application configuration
type Config struct {
	Env  string
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	Admin Admin

	// Currency is the ISO 4217 code used when rendering amounts in notifications.
	Currency string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "psoft"),
		DBPassword: getEnv("DB_PASSWORD", "psoft"),
		DBName:     getEnv("DB_NAME", "psoft_wallet"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		// No fallback: an unset admin rejects every admin call.
		Admin: Admin{
			Email:      getEnv("ADMIN_EMAIL", ""),
			AccessCode: getEnv("ADMIN_ACCESS_CODE", ""),
		},

		Currency: getEnv("CURRENCY", "BRL"),
	}

	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	appConfig = config
	return config, nil
}

// Configured reports whether both admin fields are set.
func (a Admin) Configured() bool {
	return a.Email != "" && a.AccessCode != ""
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
