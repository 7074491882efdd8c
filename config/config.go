// Package config loads the tresjolie YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultJourneysURL = "https://data.itsfactory.fi/journeys/api/1/"
	DefaultTimeout     = 30 * time.Second
	DefaultCacheTTL    = 12 * time.Hour
	DefaultRate        = 10.0
	DefaultBurst       = 1
	DefaultDriver      = "sqlite"

	EnvDocstoreURL   = "TRESJOLIE_DOCSTORE_URL"
	EnvDocstoreToken = "TRESJOLIE_DOCSTORE_TOKEN"
)

// Journeys API settings
type JourneysConfig struct {
	BaseURL string        `yaml:"base_url" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout"`

	// Responses are cached here when set
	CacheFile string        `yaml:"cache_file"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// Remote document store settings
type DocstoreConfig struct {
	URL           string  `yaml:"url" validate:"omitempty,url"`
	Token         string  `yaml:"token"`
	RatePerSecond float64 `yaml:"rate_per_second" validate:"gt=0"`
	Burst         int     `yaml:"burst" validate:"gt=0"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver" validate:"oneof=sqlite postgres"`

	// Directory holding stops.db for sqlite (blank for in-memory),
	// connection string for postgres.
	DSN string `yaml:"dsn" validate:"required_if=Driver postgres"`
}

// Config is the root configuration structure
type Config struct {
	Journeys JourneysConfig `yaml:"journeys"`
	Docstore DocstoreConfig `yaml:"docstore"`
	Database DatabaseConfig `yaml:"database"`
}

func Default() *Config {
	return &Config{
		Journeys: JourneysConfig{
			BaseURL:  DefaultJourneysURL,
			Timeout:  DefaultTimeout,
			CacheTTL: DefaultCacheTTL,
		},
		Docstore: DocstoreConfig{
			RatePerSecond: DefaultRate,
			Burst:         DefaultBurst,
		},
		Database: DatabaseConfig{
			Driver: DefaultDriver,
		},
	}
}

// Loads and validates configuration from the YAML file at path. Values
// missing from the file keep their defaults. With an empty path only
// defaults and environment apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if v := os.Getenv(EnvDocstoreURL); v != "" {
		cfg.Docstore.URL = v
	}
	if v := os.Getenv(EnvDocstoreToken); v != "" {
		cfg.Docstore.Token = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
