// Package config loads the settings of the sessionctl command from the
// environment, optionally seeded from dotenv files.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/bluescreen10/tokensession/redisstore"
)

// Store kinds accepted by TOKENSESSION_STORE.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMySQL  = "mysql"
)

var (
	ErrUnknownStore = errors.New("unknown store")
	ErrMissingDSN   = errors.New("mysql store requires TOKENSESSION_MYSQL_DSN")
)

type Config struct {
	APIURL         string        `env:"API_URL,required,notEmpty"`
	Store          string        `env:"STORE" envDefault:"sqlite"`
	SQLitePath     string        `env:"SQLITE_PATH" envDefault:"tokensession.db"`
	RedisKeyPrefix string        `env:"REDIS_KEY_PREFIX" envDefault:"tokensession:"`
	MySQLDSN       string        `env:"MYSQL_DSN"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogRequests    bool          `env:"LOG_REQUESTS" envDefault:"false"`

	Redis redisstore.Config
}

// Prefix is prepended to every variable name.
const Prefix = "TOKENSESSION_"

// Load reads the given dotenv files (".env" when none are given, and a
// missing default file is not an error) and parses the environment into a
// Config. Variables already set in the environment win over file values.
func Load(paths ...string) (Config, error) {
	if len(paths) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(paths...); err != nil {
		return Config{}, fmt.Errorf("load env files: %w", err)
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the store selection.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreSQLite, StoreRedis:
		return nil
	case StoreMySQL:
		if c.MySQLDSN == "" {
			return ErrMissingDSN
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStore, c.Store)
	}
}
