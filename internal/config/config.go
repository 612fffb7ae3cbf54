package config

import (
	"fmt"
	"os"
)

// Config holds application configuration
type Config struct {
	Port     string
	DBConn   string
	LogLevel string

	JWTSecret string

	MetaAPIURL   string
	MetaAPIToken string

	GoogleAPIURL   string
	GoogleAPIToken string

	BatchCron string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
	AlertEmail   string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DBConn:         getEnv("DB_CONN", "host=localhost port=5432 user=pacing password=pacing dbname=pacing sslmode=disable"),
		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:      getEnv("JWT_SECRET", "secret"),
		MetaAPIURL:     getEnv("META_API_URL", "https://graph.example.com/v19"),
		MetaAPIToken:   getEnv("META_API_TOKEN", ""),
		GoogleAPIURL:   getEnv("GOOGLE_API_URL", "https://reports.example.com/spend"),
		GoogleAPIToken: getEnv("GOOGLE_API_TOKEN", ""),
		BatchCron:      getEnv("BATCH_CRON", "0 6 * * *"),
		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPUsername:   getEnv("SMTP_USERNAME", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		SenderEmail:    getEnv("SENDER_EMAIL", "pacing@localhost"),
		AlertEmail:     getEnv("ALERT_EMAIL", ""),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.MetaAPIURL == "" {
		return nil, fmt.Errorf("META_API_URL is required")
	}
	if cfg.GoogleAPIURL == "" {
		return nil, fmt.Errorf("GOOGLE_API_URL is required")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
