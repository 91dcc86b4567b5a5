package config

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap/zapcore"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if _, err := uuid.Parse(c.Vault.ID); err != nil {
		return fmt.Errorf("vault.id must be a UUID: %w", err)
	}
	if c.Vault.Name == "" {
		return errors.New("vault.name is required")
	}
	if c.Vault.Symbol == "" {
		return errors.New("vault.symbol is required")
	}
	if c.Vault.Decimals < 0 || c.Vault.Decimals > 36 {
		return fmt.Errorf("vault.decimals must be between 0 and 36, got %d", c.Vault.Decimals)
	}
	if _, err := c.OwnerID(); err != nil {
		return err
	}
	if _, err := c.StrategyIDs(); err != nil {
		return err
	}

	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Server.APIToken == "" {
		return errors.New("server.api_token is required")
	}

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverLevelDB:
		if c.Storage.LevelDB.Path == "" {
			return errors.New("storage.leveldb.path is required")
		}
	case DriverPostgres:
		if err := c.Storage.Postgres.validate("storage.postgres"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("storage.driver must be one of memory, leveldb, postgres, got %q", c.Storage.Driver)
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	return nil
}

// OwnerID returns the parsed vault owner identity
func (c *Config) OwnerID() (uuid.UUID, error) {
	owner, err := uuid.Parse(c.Vault.Owner)
	if err != nil {
		return uuid.Nil, fmt.Errorf("vault.owner must be a UUID: %w", err)
	}
	if owner == uuid.Nil {
		return uuid.Nil, errors.New("vault.owner must not be the nil UUID")
	}
	return owner, nil
}

// VaultID returns the parsed vault identity
func (c *Config) VaultID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Vault.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("vault.id must be a UUID: %w", err)
	}
	return id, nil
}

// StrategyIDs returns the parsed identities of the strategies to seed
func (c *Config) StrategyIDs() ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(c.Vault.Strategies))
	for i, raw := range c.Vault.Strategies {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("vault.strategies[%d] must be a UUID: %w", i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (db *PostgresConfig) validate(prefix string) error {
	if db.ConnString != "" {
		return nil
	}
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Port < 1 || db.Port > 65535 {
		return fmt.Errorf("%s.port must be between 1 and 65535, got %d", prefix, db.Port)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	return nil
}
