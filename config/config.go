package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Environment string
	Port        string

	MongoURI string
	MongoDB  string

	JWTSecret string

	Email EmailConfig
}

// EmailConfig holds outbound email settings. When Provider is empty it is
// inferred from which credentials are present; with no credentials at all
// the noop provider is selected and notifications are silently skipped.
type EmailConfig struct {
	Provider    string
	FromAddress string
	FromName    string

	ResendAPIKey string

	SESRegion          string
	SESAccessKeyID     string
	SESSecretAccessKey string
}

// Load loads configuration from environment variables.
// It attempts to load from a .env file first when not in production,
// where we rely on system environment variables instead.
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment: env,
		Port:        os.Getenv("PORT"),
		MongoURI:    os.Getenv("MONGO_URI"),
		MongoDB:     os.Getenv("MONGO_DB"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Email: EmailConfig{
			Provider:           os.Getenv("EMAIL_PROVIDER"),
			FromAddress:        os.Getenv("EMAIL_FROM_ADDRESS"),
			FromName:           os.Getenv("EMAIL_FROM_NAME"),
			ResendAPIKey:       os.Getenv("RESEND_API_KEY"),
			SESRegion:          os.Getenv("SES_REGION"),
			SESAccessKeyID:     os.Getenv("SES_ACCESS_KEY_ID"),
			SESSecretAccessKey: os.Getenv("SES_SECRET_ACCESS_KEY"),
		},
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.MongoURI == "" {
		cfg.MongoURI = "mongodb://127.0.0.1:27017"
	}
	if cfg.MongoDB == "" {
		cfg.MongoDB = "virtualevents"
	}
	if cfg.JWTSecret == "" {
		log.Printf("Warning: JWT_SECRET is not set, using an insecure development default")
		cfg.JWTSecret = "dev-insecure-secret"
	}

	if cfg.Email.Provider == "" {
		switch {
		case cfg.Email.ResendAPIKey != "":
			cfg.Email.Provider = "resend"
		case cfg.Email.SESAccessKeyID != "" && cfg.Email.SESSecretAccessKey != "":
			cfg.Email.Provider = "ses"
		default:
			cfg.Email.Provider = "noop"
		}
	}

	return cfg, nil
}
