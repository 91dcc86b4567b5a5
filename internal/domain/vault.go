package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Strategy represents a strategy record held by the vault registry
type Strategy struct {
	ID              uuid.UUID
	Active          bool
	AllocatedAssets decimal.Decimal // Capital the vault has pushed into the strategy plus reported profit
}

// VaultState represents the whole mutable state of a vault.
// It is owned by the vault service; every operation mutates a Clone and swaps it in on commit.
type VaultState struct {
	Owner       uuid.UUID
	Paused      bool
	TotalAssets decimal.Decimal // Idle + allocated, in smallest asset units
	IdleAssets  decimal.Decimal // Held by the vault itself, not allocated to any strategy
	TotalShares decimal.Decimal

	Balances   map[uuid.UUID]decimal.Decimal
	Allowances map[uuid.UUID]map[uuid.UUID]decimal.Decimal // owner -> spender -> shares
	Strategies []*Strategy                                 // insertion order
}

// NewVaultState creates the initial state of a vault deployed by owner
func NewVaultState(owner uuid.UUID) *VaultState {
	return &VaultState{
		Owner:       owner,
		TotalAssets: decimal.Zero,
		IdleAssets:  decimal.Zero,
		TotalShares: decimal.Zero,
		Balances:    make(map[uuid.UUID]decimal.Decimal),
		Allowances:  make(map[uuid.UUID]map[uuid.UUID]decimal.Decimal),
		Strategies:  make([]*Strategy, 0),
	}
}

// Clone returns a deep copy of the state
func (s *VaultState) Clone() *VaultState {
	c := &VaultState{
		Owner:       s.Owner,
		Paused:      s.Paused,
		TotalAssets: s.TotalAssets,
		IdleAssets:  s.IdleAssets,
		TotalShares: s.TotalShares,
		Balances:    make(map[uuid.UUID]decimal.Decimal, len(s.Balances)),
		Allowances:  make(map[uuid.UUID]map[uuid.UUID]decimal.Decimal, len(s.Allowances)),
		Strategies:  make([]*Strategy, 0, len(s.Strategies)),
	}
	for holder, balance := range s.Balances {
		c.Balances[holder] = balance
	}
	for owner, spenders := range s.Allowances {
		copied := make(map[uuid.UUID]decimal.Decimal, len(spenders))
		for spender, shares := range spenders {
			copied[spender] = shares
		}
		c.Allowances[owner] = copied
	}
	for _, strategy := range s.Strategies {
		copied := *strategy
		c.Strategies = append(c.Strategies, &copied)
	}
	return c
}

// AllocatedAssets returns the sum of assets allocated to registered strategies
func (s *VaultState) AllocatedAssets() decimal.Decimal {
	total := decimal.Zero
	for _, strategy := range s.Strategies {
		total = total.Add(strategy.AllocatedAssets)
	}
	return total
}

// Validate ensures the state adheres to the vault invariants
// CRITICAL: totalAssets == idle + Σ allocated, and totalShares == Σ balances
func (s *VaultState) Validate() error {
	if s.Owner == uuid.Nil {
		return errors.New("vault owner must be set")
	}

	for _, amount := range []decimal.Decimal{s.TotalAssets, s.IdleAssets, s.TotalShares} {
		if err := ValidateAmount(amount); err != nil {
			return fmt.Errorf("vault totals: %w", err)
		}
	}

	seen := make(map[uuid.UUID]bool, len(s.Strategies))
	for _, strategy := range s.Strategies {
		if seen[strategy.ID] {
			return fmt.Errorf("strategy %s registered twice", strategy.ID)
		}
		seen[strategy.ID] = true
		if err := ValidateAmount(strategy.AllocatedAssets); err != nil {
			return fmt.Errorf("strategy %s allocation: %w", strategy.ID, err)
		}
	}

	if !s.TotalAssets.Equal(s.IdleAssets.Add(s.AllocatedAssets())) {
		return fmt.Errorf("total assets %s do not equal idle %s plus allocated %s",
			s.TotalAssets, s.IdleAssets, s.AllocatedAssets())
	}

	supply := decimal.Zero
	for holder, balance := range s.Balances {
		if err := ValidateAmount(balance); err != nil {
			return fmt.Errorf("balance of %s: %w", holder, err)
		}
		supply = supply.Add(balance)
	}
	if !supply.Equal(s.TotalShares) {
		return fmt.Errorf("total shares %s do not equal sum of balances %s", s.TotalShares, supply)
	}

	return nil
}
