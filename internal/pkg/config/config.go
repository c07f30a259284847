package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const EnvProduction = "production"

type Config struct {
	Port         string `env:"PORT,          default=3000"`
	Env          string `env:"ENV,           default=development"`
	JWTSecret    string `env:"JWT_SECRET"`
	AuthRequired bool   `env:"AUTH_REQUIRED, default=false"`

	Log   LogConfig
	DB    DBConfig
	Redis RedisConfig
	Mongo MongoConfig
	Rate  RateLimitConfig
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL,  default=info"`
	Pretty bool   `env:"LOG_PRETTY, default=false"`
	// File enables a rotating copy of the log stream at this path.
	File string `env:"LOG_FILE"`
}

type DBConfig struct {
	Driver      string `env:"DB_DRIVER,           default=mysql"`
	WriterURL   string `env:"DATABASE_WRITER_URL"`
	ReaderURL   string `env:"DATABASE_READER_URL"`
	Mirror      bool   `env:"DB_READER_MIRROR,    default=true"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE,     default=false"`

	UsersTable       string `env:"DB_USERS_TABLE,        default=users"`
	PostsTable       string `env:"DB_POSTS_TABLE,        default=posts"`
	ReaderUsersTable string `env:"DB_READER_USERS_TABLE"`
	ReaderPostsTable string `env:"DB_READER_POSTS_TABLE"`

	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,     default=25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,     default=5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,  default=30m"`
}

// RedisConfig is optional: without an address the rate limiter runs in
// process memory.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// MongoConfig is optional: without a URI the audit trail is disabled.
type MongoConfig struct {
	URI          string `env:"MONGO_URI"`
	Database     string `env:"MONGO_DB,      default=posts_api"`
	AuditWorkers int    `env:"AUDIT_WORKERS, default=4"`
}

type RateLimitConfig struct {
	Limit  int           `env:"RATE_LIMIT,        default=100"`
	Window time.Duration `env:"RATE_LIMIT_WINDOW, default=1m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads and validates configuration from an arbitrary lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.DB.WriterURL == "" {
		errs = append(errs, errors.New("DATABASE_WRITER_URL is required"))
	}
	switch c.DB.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not one of mysql, postgres, sqlite", c.DB.Driver))
	}
	if c.AuthRequired && c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required when AUTH_REQUIRED is set"))
	}
	if c.Rate.Limit <= 0 || c.Rate.Window <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT and RATE_LIMIT_WINDOW must be positive"))
	}
	return errors.Join(errs...)
}

// Production reports whether ENV is production.
func (c *Config) Production() bool { return c.Env == EnvProduction }
