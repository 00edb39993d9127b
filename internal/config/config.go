package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreMemory   = "memory"
)

// Config holds the application configuration.
type Config struct {
	Environment string `yaml:"environment"`
	Store       string `yaml:"store"`
	DatabaseURL string `yaml:"database_url"`
	SQLitePath  string `yaml:"sqlite_path"`

	GRPCAddr string `yaml:"grpc_addr"`
	HTTPAddr string `yaml:"http_addr"`

	QuoteAPIURL string `yaml:"quote_api_url"`
	QuoteAPIKey string `yaml:"quote_api_key"`
}

// Load reads configuration from the environment, optionally overlaid by a
// YAML file named in LEDGER_CONFIG. Environment variables win over file
// values so deployments can patch a shared file.
func Load() (*Config, error) {
	cfg := &Config{
		Store:    StoreMemory,
		GRPCAddr: ":50051",
		HTTPAddr: ":8080",
	}

	if path := os.Getenv("LEDGER_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	setIfPresent(&cfg.Environment, "APP_ENV")
	setIfPresent(&cfg.Store, "LEDGER_STORE")
	setIfPresent(&cfg.DatabaseURL, "DATABASE_URL")
	setIfPresent(&cfg.SQLitePath, "LEDGER_DB_PATH")
	setIfPresent(&cfg.GRPCAddr, "LEDGER_GRPC_ADDR")
	setIfPresent(&cfg.HTTPAddr, "LEDGER_HTTP_ADDR")
	setIfPresent(&cfg.QuoteAPIURL, "QUOTE_API_URL")
	setIfPresent(&cfg.QuoteAPIKey, "QUOTE_API_KEY")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func setIfPresent(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks that the configuration is coherent for the selected
// backend.
func (c *Config) Validate() error {
	var missing []string

	switch c.Store {
	case StorePostgres:
		if c.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			missing = append(missing, "LEDGER_DB_PATH")
		}
	case StoreMemory:
		// Nothing durable to configure.
	default:
		return fmt.Errorf("unknown store backend %q", c.Store)
	}

	// Quotes are mandatory outside development: without a feed the engine
	// can only reject buy/sell orders.
	if c.Environment == "production" || c.Environment == "staging" {
		if c.QuoteAPIURL == "" {
			missing = append(missing, "QUOTE_API_URL")
		}
		if c.QuoteAPIKey == "" {
			missing = append(missing, "QUOTE_API_KEY")
		}
		if c.Store == StoreMemory {
			return errors.New("memory store is not valid in " + c.Environment)
		}
	}

	if len(missing) > 0 {
		return errors.New("missing required configuration: " + strings.Join(missing, ", "))
	}
	return nil
}
