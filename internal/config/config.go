package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	Port    int    `env:"PORT" envDefault:"8080"`
	AppName string `env:"APP_NAME" envDefault:"Allo"`

	MongoURI string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB  string `env:"MONGO_DB" envDefault:"allo"`

	JWTSecret     string `env:"JWT_SECRET"`
	JWTExpireDays int    `env:"JWT_EXPIRE_DAYS" envDefault:"30"`

	OTPExpireMinutes      int    `env:"OTP_EXPIRE_MINUTES" envDefault:"10"`
	ExternalSessionSecret string `env:"EXTERNAL_SESSION_SECRET"`

	SMTPHost     string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	OpenAIModel  string `env:"OPENAI_MODEL" envDefault:"gpt-4.1-nano"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// Load parses the configuration from the process environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}
	return cfg, nil
}
