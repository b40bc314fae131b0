// Package config loads process configuration from the environment, after
// merging an optional .env file.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParsingConfig wraps every environment parsing failure.
var ErrParsingConfig = errors.New("config: failed to parse environment")

// Config is the server configuration.
type Config struct {
	Port                string        `env:"PORT" envDefault:"8080"`
	Env                 string        `env:"ENV" envDefault:"development"`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`
	CountriesAPIURL     string        `env:"COUNTRIES_API_URL,required"`
	CountriesAPITimeout time.Duration `env:"COUNTRIES_API_TIMEOUT" envDefault:"0s"`
	RedisURL            string        `env:"REDIS_URL"`
	SessionTTL          time.Duration `env:"SESSION_TTL" envDefault:"120h"`
	HomePageTTL         time.Duration `env:"HOME_PAGE_TTL" envDefault:"30m"`
	ShutdownTimeout     time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	StaticDir           string        `env:"STATIC_DIR" envDefault:"web/static"`
}

// IsProduction reports whether ENV selects production behaviour.
func (c Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Addr is the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

// LoadDotEnv merges the given .env files (default ".env") into the process
// environment. It reports whether any file was found; a missing file is not an error.
func LoadDotEnv(paths ...string) bool {
	return godotenv.Load(paths...) == nil
}

// Load parses the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	if cfg.CountriesAPITimeout < 0 {
		return Config{}, fmt.Errorf("%w: COUNTRIES_API_TIMEOUT must not be negative", ErrParsingConfig)
	}
	return cfg, nil
}
