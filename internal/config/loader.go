package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand ${VAR} environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	return &cfg, nil
}

// LoadWithDefaults loads config, applies environment overrides and default values.
// An empty path starts from an empty config.
func LoadWithDefaults(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadAndValidate loads config, applies defaults, and validates.
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := LoadWithDefaults(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// applyEnv lets deployment variables override file values
func (c *Config) applyEnv() error {
	overrides := []struct {
		env string
		dst *string
	}{
		{"API_TOKEN", &c.Server.APIToken},
		{"GRPC_ADDR", &c.Server.Addr},
		{"DB_CONN_STR", &c.Storage.Postgres.ConnString},
		{"DB_HOST", &c.Storage.Postgres.Host},
		{"DB_USER", &c.Storage.Postgres.User},
		{"DB_PASSWORD", &c.Storage.Postgres.Password},
		{"DB_NAME", &c.Storage.Postgres.Name},
		{"STORAGE_DRIVER", &c.Storage.Driver},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}

	if v := os.Getenv("DB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DB_PORT: %w", err)
		}
		c.Storage.Postgres.Port = port
	}
	return nil
}

// DSN returns the lib/pq connection string
func (p PostgresConfig) DSN() string {
	if p.ConnString != "" {
		return p.ConnString
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Name, p.SSLMode)
}
