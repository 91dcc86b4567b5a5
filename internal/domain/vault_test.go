package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVaultState_Validate(t *testing.T) {
	owner := uuid.New()
	holder := uuid.New()
	strategyID := uuid.New()

	tests := []struct {
		name    string
		mutate  func(s *VaultState)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "Fresh vault should pass",
			mutate:  func(s *VaultState) {},
			wantErr: false,
		},
		{
			name: "Balanced vault with strategy should pass",
			mutate: func(s *VaultState) {
				s.TotalAssets = decimal.NewFromInt(150)
				s.IdleAssets = decimal.NewFromInt(50)
				s.Strategies = append(s.Strategies, &Strategy{ID: strategyID, Active: true, AllocatedAssets: decimal.NewFromInt(100)})
				s.TotalShares = decimal.NewFromInt(120)
				s.Balances[holder] = decimal.NewFromInt(120)
			},
			wantErr: false,
		},
		{
			name: "Vault without owner should fail",
			mutate: func(s *VaultState) {
				s.Owner = uuid.Nil
			},
			wantErr: true,
			errMsg:  "vault owner must be set",
		},
		{
			name: "Allocation mismatch should fail",
			mutate: func(s *VaultState) {
				s.TotalAssets = decimal.NewFromInt(100)
				s.IdleAssets = decimal.NewFromInt(10)
			},
			wantErr: true,
			errMsg:  "do not equal idle",
		},
		{
			name: "Supply mismatch should fail",
			mutate: func(s *VaultState) {
				s.TotalShares = decimal.NewFromInt(10)
				s.Balances[holder] = decimal.NewFromInt(9)
			},
			wantErr: true,
			errMsg:  "do not equal sum of balances",
		},
		{
			name: "Fractional total should fail",
			mutate: func(s *VaultState) {
				s.TotalAssets = decimal.RequireFromString("1.5")
				s.IdleAssets = decimal.RequireFromString("1.5")
			},
			wantErr: true,
			errMsg:  "non-negative integer",
		},
		{
			name: "Duplicate strategy should fail",
			mutate: func(s *VaultState) {
				s.Strategies = append(s.Strategies,
					&Strategy{ID: strategyID, Active: true, AllocatedAssets: decimal.Zero},
					&Strategy{ID: strategyID, Active: true, AllocatedAssets: decimal.Zero},
				)
			},
			wantErr: true,
			errMsg:  "registered twice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := NewVaultState(owner)
			tt.mutate(state)

			err := state.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVaultState_CloneIsIndependent(t *testing.T) {
	owner := uuid.New()
	holder := uuid.New()
	spender := uuid.New()
	strategyID := uuid.New()

	state := NewVaultState(owner)
	state.Balances[holder] = decimal.NewFromInt(10)
	state.Allowances[holder] = map[uuid.UUID]decimal.Decimal{spender: decimal.NewFromInt(5)}
	state.Strategies = append(state.Strategies, &Strategy{ID: strategyID, Active: true, AllocatedAssets: decimal.NewFromInt(7)})

	clone := state.Clone()
	clone.Paused = true
	clone.Balances[holder] = decimal.NewFromInt(1)
	clone.Allowances[holder][spender] = decimal.Zero
	clone.Strategies[0].AllocatedAssets = decimal.Zero
	clone.Strategies = append(clone.Strategies, &Strategy{ID: uuid.New()})

	require.False(t, state.Paused)
	assert.True(t, state.Balances[holder].Equal(decimal.NewFromInt(10)))
	assert.True(t, state.Allowances[holder][spender].Equal(decimal.NewFromInt(5)))
	assert.True(t, state.Strategies[0].AllocatedAssets.Equal(decimal.NewFromInt(7)))
	assert.Len(t, state.Strategies, 1)
}
