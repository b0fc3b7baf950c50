package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port        string `env:"PORT,         default=8080"`
	Env         string `env:"ENV,          default=development"`
	JWTSecret   string `env:"JWT_SECRET"`
	LogLevel    string `env:"LOG_LEVEL,    default=info"`
	PhoneRegion string `env:"PHONE_REGION, default=CN"`

	// AccessTokenTTL is the bearer credential lifetime; VerifyTokenTTL
	// bounds verification and password-reset tokens.
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL, default=24h"`
	VerifyTokenTTL time.Duration `env:"VERIFY_TOKEN_TTL, default=1h"`

	// StatusWindow is how long a game-server report stays authoritative;
	// CleanupInterval is how often stale tracker entries are swept.
	StatusWindow    time.Duration `env:"STATUS_WINDOW,    default=15s"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL, default=600s"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=campus"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
