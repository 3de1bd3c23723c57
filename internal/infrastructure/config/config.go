package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// TokenTTL is the lifetime of issued bearer tokens.
	TokenTTL time.Duration `env:"TOKEN_TTL, default=24h"`

	// MaxAgentsPerUpload caps how many active agents a single upload is
	// distributed across. A business rule, not a technical constraint.
	MaxAgentsPerUpload int `env:"MAX_AGENTS_PER_UPLOAD, default=5"`

	// Bootstrap credentials for the one-time setup-admin operation. Override
	// these in any real deployment.
	AdminEmail    string `env:"ADMIN_EMAIL,    default=admin@gmail.com"`
	AdminPassword string `env:"ADMIN_PASSWORD, default=admin26"`
	AdminName     string `env:"ADMIN_NAME,     default=System Admin"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=lead_distribution"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
