package main

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/auravault-backend/internal/config"
)

func TestResolveIdentities(t *testing.T) {
	vaultID, owner, strategyID := uuid.New(), uuid.New(), uuid.New()
	valid := func() *config.Config {
		return &config.Config{Vault: config.VaultConfig{
			ID:         vaultID.String(),
			Owner:      owner.String(),
			Strategies: []string{strategyID.String()},
		}}
	}

	ids, err := resolveIdentities(valid())
	require.NoError(t, err)
	assert.Equal(t, vaultID, ids.vault)
	assert.Equal(t, owner, ids.owner)
	assert.Equal(t, []uuid.UUID{strategyID}, ids.strategies)

	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{name: "vault id", mutate: func(c *config.Config) { c.Vault.ID = "vault-1" }, wantErr: "vault.id"},
		{name: "nil owner", mutate: func(c *config.Config) { c.Vault.Owner = uuid.Nil.String() }, wantErr: "vault.owner"},
		{name: "strategy id", mutate: func(c *config.Config) { c.Vault.Strategies = append(c.Vault.Strategies, "x") }, wantErr: "vault.strategies[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			_, err := resolveIdentities(cfg)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
