package config

// Default values for optional configuration fields.
const (
	DefaultVaultID     = "00000000-0000-0000-0000-00000000a0a0"
	DefaultVaultName   = "Aura Vault USD"
	DefaultVaultSymbol = "avUSD"
	DefaultDecimals    = 18
	DefaultOwner       = "00000000-0000-0000-0000-000000000001"
	DefaultAssetCode   = "USDX"
	DefaultAddr        = ":8080"
	DefaultAPIToken    = "dev-token"
	DefaultDriver      = DriverMemory
	DefaultLevelDBPath = "data/operations.leveldb"
	DefaultDBHost      = "localhost"
	DefaultDBPort      = 5432
	DefaultDBUser      = "postgres"
	DefaultDBPassword  = "postgres"
	DefaultDBName      = "auravault"
	DefaultDBSSLMode   = "disable"
	DefaultLogLevel    = "info"
)

func (c *Config) applyDefaults() {
	// Vault defaults
	if c.Vault.ID == "" {
		c.Vault.ID = DefaultVaultID
	}
	if c.Vault.Name == "" {
		c.Vault.Name = DefaultVaultName
	}
	if c.Vault.Symbol == "" {
		c.Vault.Symbol = DefaultVaultSymbol
	}
	if c.Vault.Decimals == 0 {
		c.Vault.Decimals = DefaultDecimals
	}
	if c.Vault.Owner == "" {
		c.Vault.Owner = DefaultOwner
	}
	if c.Vault.AssetCode == "" {
		c.Vault.AssetCode = DefaultAssetCode
	}

	// Server defaults
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.APIToken == "" {
		c.Server.APIToken = DefaultAPIToken
	}

	// Storage defaults
	if c.Storage.Driver == "" {
		c.Storage.Driver = DefaultDriver
	}
	if c.Storage.LevelDB.Path == "" {
		c.Storage.LevelDB.Path = DefaultLevelDBPath
	}
	applyDBDefaults(&c.Storage.Postgres)

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

func applyDBDefaults(db *PostgresConfig) {
	if db.Host == "" {
		db.Host = DefaultDBHost
	}
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.User == "" {
		db.User = DefaultDBUser
	}
	if db.Password == "" {
		db.Password = DefaultDBPassword
	}
	if db.Name == "" {
		db.Name = DefaultDBName
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
}
