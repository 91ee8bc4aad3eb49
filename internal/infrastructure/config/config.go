package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port          string        `env:"PORT,           default=8080"`
	Env           string        `env:"ENV,            default=development"`
	JWTSecret     string        `env:"JWT_SECRET"`
	TokenTTL      time.Duration `env:"TOKEN_TTL,      default=24h"`
	LogLevel      string        `env:"LOG_LEVEL,      default=info"`
	AdminPassword string        `env:"ADMIN_PASSWORD, default=password123"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL, default=1m"`

	Mongo MongoConfig
	Redis RedisConfig
	Kafka KafkaConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=bankcards"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type KafkaConfig struct {
	Enabled bool     `env:"KAFKA_ENABLED, default=false"`
	Brokers []string `env:"KAFKA_BROKERS, default=localhost:9092"`
	Topic   string   `env:"KAFKA_TOPIC,   default=bankcards.events"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}
	return &cfg, nil
}
