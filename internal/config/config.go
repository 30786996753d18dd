package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string `env:"SERVER_PORT, default=8080"`
	Env        string `env:"ENV, default=development"`
	LogLevel   string `env:"LOG_LEVEL, default=info"`

	MySQLDSN string `env:"MYSQL_DSN, default=user:password@tcp(localhost:3306)/cheese_market?charset=utf8mb4&parseTime=True&loc=Local"`

	RedisAddr string `env:"REDIS_ADDR, default=localhost:6379"`
	RedisDB   int    `env:"REDIS_DB, default=0"`
	RedisPass string `env:"REDIS_PASSWORD"`

	SessionTTL    time.Duration `env:"SESSION_TTL, default=24h"`
	SessionCookie string        `env:"SESSION_COOKIE, default=cheese_sessid"`
	CookieSecure  bool          `env:"SESSION_COOKIE_SECURE, default=false"`
}

// Load builds Config from the environment with defaults suitable for local development.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
