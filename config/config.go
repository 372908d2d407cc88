package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBName    string
	JWTKey    string
	SaltRound int

	// BaseURL is used to build public certificate verification links
	BaseURL string

	EmailSender    string
	SendgridApiKey string

	// Shared secrets for inbound webhook signature verification
	PaymentWebhookSecret    string
	EnrollmentWebhookSecret string

	// EventWebhookURL receives outbound platform event notifications (optional)
	EventWebhookURL string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		DBName:    getEnv("DB_NAME", "lms"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		BaseURL: getEnv("BASE_URL", "http://localhost:3000"),

		EmailSender:    getEnv("EMAIL_SENDER", "noreply@example.com"),
		SendgridApiKey: getEnv("SENDGRID_API_KEY", ""),

		PaymentWebhookSecret:    getEnv("PAYMENT_WEBHOOK_SECRET", ""),
		EnrollmentWebhookSecret: getEnv("ENROLLMENT_WEBHOOK_SECRET", ""),

		EventWebhookURL: getEnv("EVENT_WEBHOOK_URL", ""),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.PaymentWebhookSecret == "" {
		log.Println("Warning: PAYMENT_WEBHOOK_SECRET not set. Payment webhooks will be rejected.")
	}
	if AppConfig.EnrollmentWebhookSecret == "" {
		log.Println("Warning: ENROLLMENT_WEBHOOK_SECRET not set. Enrollment webhooks will be rejected.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
