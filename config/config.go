package config

import (
	"fmt"
	"os"

	"go.mongodb.org/mongo-driver/mongo"
)

// Config carries everything the controllers need, including the single
// Mongo client handle owned by the process. Controllers never open or
// check connections themselves.
type Config struct {
	Port          string
	MongoURI      string
	DBName        string
	JWTSecret     string
	SessionSecret string
	Email         EmailConfig

	MongoClient *mongo.Client
}

// EmailConfig mirrors the SMTP transport settings. Mail sending is
// skipped entirely when Host is unset.
type EmailConfig struct {
	Host string
	Port string
	User string
	Pass string
}

func (e EmailConfig) Enabled() bool {
	return e.Host != ""
}

// Load reads configuration from the environment. The process must not
// start without the token and session secrets.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017/"),
		DBName:        getEnv("DB_NAME", "eventease"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		Email: EmailConfig{
			Host: os.Getenv("EMAIL_HOST"),
			Port: getEnv("EMAIL_PORT", "587"),
			User: os.Getenv("EMAIL_USER"),
			Pass: os.Getenv("EMAIL_PASS"),
		},
	}

	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is not defined")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not defined")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
