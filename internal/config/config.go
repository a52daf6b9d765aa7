package config

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/medbill/healthcare-billing/pkg/config"
)

type Config struct {
	ServerPort int
	LogLevel   string

	DatabaseURL string

	JWTSecret []byte

	KafkaBrokers []string
	KafkaTopic   string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

// Load reads config from .env (when present) and the environment. The
// signing secret and database descriptor are startup preconditions: the
// process refuses to start without them.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found, using system environment")
	}

	cfg := Config{
		ServerPort: config.EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:   config.EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: config.EnvDefault("DATABASE_URL", ""),

		JWTSecret: []byte(config.EnvDefault("JWT_SECRET", "")),

		KafkaBrokers: config.CSV(config.EnvDefault("KAFKA_BROKERS", "")),
		KafkaTopic:   config.EnvDefault("KAFKA_TOPIC", "billing_events"),

		ESURL:      config.EnvDefault("ES_URL", ""),
		ESUser:     config.EnvDefault("ES_USER", ""),
		ESPassword: config.EnvDefault("ES_PASSWORD", ""),
		ESIndex:    config.EnvDefault("ES_INDEX", "patients"),
	}

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	return cfg
}
