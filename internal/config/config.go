// Package config loads the vault backend configuration from YAML.
package config

// Config is the root configuration of the vault backend.
type Config struct {
	Vault   VaultConfig   `yaml:"vault"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// VaultConfig describes the vault deployed at startup.
type VaultConfig struct {
	ID         string   `yaml:"id"` // identity of the vault on the asset ledger
	Name       string   `yaml:"name"`
	Symbol     string   `yaml:"symbol"`
	Decimals   int32    `yaml:"decimals"`
	Owner      string   `yaml:"owner"`
	AssetCode  string   `yaml:"asset_code"`
	Strategies []string `yaml:"strategies"` // registered by the seeder as owner
}

// ServerConfig holds the gRPC listener settings.
type ServerConfig struct {
	Addr     string `yaml:"addr"`
	APIToken string `yaml:"api_token"`
}

// StorageConfig selects the operation journal backend.
type StorageConfig struct {
	Driver   string         `yaml:"driver"` // memory, leveldb or postgres
	LevelDB  LevelDBConfig  `yaml:"leveldb"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// LevelDBConfig holds the embedded journal location.
type LevelDBConfig struct {
	Path string `yaml:"path"`
}

// PostgresConfig holds database connection settings.
type PostgresConfig struct {
	ConnString string `yaml:"conn_string"` // overrides the individual fields when set
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Name       string `yaml:"name"`
	SSLMode    string `yaml:"sslmode"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Storage drivers
const (
	DriverMemory   = "memory"
	DriverLevelDB  = "leveldb"
	DriverPostgres = "postgres"
)
