package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port           string        `env:"PORT,            default=8080"`
	Env            string        `env:"ENV,             default=development"`
	LogLevel       string        `env:"LOG_LEVEL,       default=info"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT, default=10s"`
	NotifyWorkers  int           `env:"NOTIFY_WORKERS,  default=4"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	JWTSecret    string        `env:"JWT_SECRET, required"`
	JWTTTL       time.Duration `env:"JWT_TTL,       default=360h"`
	BcryptCost   int           `env:"BCRYPT_COST,   default=10"`
	CookieName   string        `env:"COOKIE_NAME,   default=jwt"`
	CookieSecure bool          `env:"COOKIE_SECURE, default=false"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=social"`
}

// RedisConfig enables the token revocation list. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// SecureCookies reports whether the session cookie carries the Secure flag.
func (c *Config) SecureCookies() bool {
	return c.IsProduction() || c.Auth.CookieSecure
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through the given lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Auth.JWTTTL <= 0 {
		return nil, fmt.Errorf("config: JWT_TTL must be positive, got %s", cfg.Auth.JWTTTL)
	}
	return &cfg, nil
}
