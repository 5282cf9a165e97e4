package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=5000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth     AuthConfig
	HTTP     HTTPConfig
	Realtime RealtimeConfig
	Mongo    MongoConfig
	Redis    RedisConfig
}

type AuthConfig struct {
	JWTSecret       string        `env:"JWT_SECRET, required"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL,  default=24h"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL, default=168h"`
	ResetTokenTTL   time.Duration `env:"RESET_TOKEN_TTL,   default=10m"`
}

type HTTPConfig struct {
	// ClientURL is the frontend origin used to build password-reset links.
	ClientURL      string   `env:"CLIENT_URL, default=http://localhost:5173"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS, default=http://localhost:5173,https://syncflow-xnch.onrender.com"`
}

type RealtimeConfig struct {
	Heartbeat time.Duration `env:"SSE_HEARTBEAT, default=25s"`
	Buffer    int           `env:"SSE_BUFFER,    default=16"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=syncflow"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Realtime.Buffer <= 0 {
		return nil, fmt.Errorf("load config: SSE_BUFFER must be positive")
	}
	return &cfg, nil
}

// IsProduction reports whether the service runs with production settings
// (secure cookies, JSON logs).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
