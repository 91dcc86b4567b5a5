package vault

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/auravault-backend/internal/domain"
	"github.com/simaogato/auravault-backend/internal/usecase/registry"
	"github.com/simaogato/auravault-backend/internal/usecase/shares"
)

// read runs fn against the live state under the read lock
func (s *VaultService) read(fn func(state *domain.VaultState)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.state)
}

// Metadata returns the share token description
func (s *VaultService) Metadata() Metadata { return s.meta }

func (s *VaultService) Name() string { return s.meta.Name }

func (s *VaultService) Symbol() string { return s.meta.Symbol }

func (s *VaultService) Decimals() int32 { return s.meta.Decimals }

// TotalAssets returns the assets managed by the vault, idle plus allocated
func (s *VaultService) TotalAssets() (total decimal.Decimal) {
	s.read(func(state *domain.VaultState) { total = state.TotalAssets })
	return total
}

// TotalShares returns the share supply
func (s *VaultService) TotalShares() (total decimal.Decimal) {
	s.read(func(state *domain.VaultState) { total = state.TotalShares })
	return total
}

// IdleAssets returns the assets held by the vault itself
func (s *VaultService) IdleAssets() (idle decimal.Decimal) {
	s.read(func(state *domain.VaultState) { idle = state.IdleAssets })
	return idle
}

func (s *VaultService) Paused() (paused bool) {
	s.read(func(state *domain.VaultState) { paused = state.Paused })
	return paused
}

func (s *VaultService) Owner() (owner uuid.UUID) {
	s.read(func(state *domain.VaultState) { owner = state.Owner })
	return owner
}

// BalanceOf returns the share balance of a holder
func (s *VaultService) BalanceOf(holder uuid.UUID) (balance decimal.Decimal) {
	s.read(func(state *domain.VaultState) { balance = shares.NewLedger(state).BalanceOf(holder) })
	return balance
}

// Allowance returns how many of owner's shares spender may withdraw or redeem
func (s *VaultService) Allowance(owner, spender uuid.UUID) (allowed decimal.Decimal) {
	s.read(func(state *domain.VaultState) { allowed = shares.NewLedger(state).Allowance(owner, spender) })
	return allowed
}

// IsStrategy reports whether id is a registered, active strategy
func (s *VaultService) IsStrategy(id uuid.UUID) (ok bool) {
	s.read(func(state *domain.VaultState) { ok = registry.NewRegistry(state).IsStrategy(id) })
	return ok
}

// Strategies returns the strategy id at index of the registry enumeration
func (s *VaultService) Strategies(index int) (id uuid.UUID, err error) {
	s.read(func(state *domain.VaultState) { id, err = registry.NewRegistry(state).At(index) })
	return id, err
}

// ListStrategies returns registered strategy ids in insertion order
func (s *VaultService) ListStrategies() (ids []uuid.UUID) {
	s.read(func(state *domain.VaultState) { ids = registry.NewRegistry(state).List() })
	return ids
}

// Strategy returns a copy of a strategy record
func (s *VaultService) Strategy(id uuid.UUID) (strategy domain.Strategy, err error) {
	s.read(func(state *domain.VaultState) {
		var found *domain.Strategy
		found, err = registry.NewRegistry(state).Get(id)
		if err == nil {
			strategy = *found
		}
	})
	return strategy, err
}

// Snapshot returns a deep copy of the live state
func (s *VaultService) Snapshot() (snapshot *domain.VaultState) {
	s.read(func(state *domain.VaultState) { snapshot = state.Clone() })
	return snapshot
}

// ConvertToShares returns the shares assets are worth, rounded down
func (s *VaultService) ConvertToShares(assets decimal.Decimal) (out decimal.Decimal) {
	s.read(func(state *domain.VaultState) { out = shares.NewLedger(state).ConvertToShares(assets) })
	return out
}

// ConvertToAssets returns the assets shares are worth, rounded down
func (s *VaultService) ConvertToAssets(amount decimal.Decimal) (out decimal.Decimal) {
	s.read(func(state *domain.VaultState) { out = shares.NewLedger(state).ConvertToAssets(amount) })
	return out
}

// PreviewDeposit returns the shares a deposit of assets would mint now
func (s *VaultService) PreviewDeposit(assets decimal.Decimal) decimal.Decimal {
	return s.ConvertToShares(assets)
}

// PreviewWithdraw returns the shares a withdrawal of assets would burn now
func (s *VaultService) PreviewWithdraw(assets decimal.Decimal) (out decimal.Decimal) {
	s.read(func(state *domain.VaultState) { out = shares.NewLedger(state).ConvertToSharesCeil(assets) })
	return out
}

// PreviewRedeem returns the assets redeeming shares would pay now
func (s *VaultService) PreviewRedeem(amount decimal.Decimal) decimal.Decimal {
	return s.ConvertToAssets(amount)
}

// MaxWithdraw returns the most assets owner can withdraw now.
// It is bounded by the owner's shares and by what the idle pool and the active strategy can supply.
func (s *VaultService) MaxWithdraw(owner uuid.UUID) (limit decimal.Decimal) {
	s.read(func(state *domain.VaultState) {
		ledger := shares.NewLedger(state)
		limit = decimal.Min(ledger.ConvertToAssets(ledger.BalanceOf(owner)), liquidity(state))
	})
	return limit
}

// MaxRedeem returns the most shares owner can redeem now
func (s *VaultService) MaxRedeem(owner uuid.UUID) (limit decimal.Decimal) {
	s.read(func(state *domain.VaultState) {
		ledger := shares.NewLedger(state)
		balance := ledger.BalanceOf(owner)
		available := liquidity(state)
		if ledger.ConvertToAssets(balance).LessThanOrEqual(available) {
			limit = balance
			return
		}
		limit = decimal.Min(balance, ledger.ConvertToShares(available))
	})
	return limit
}

// PendingProfit asks a strategy how much profit it holds but has not reported
func (s *VaultService) PendingProfit(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := registry.NewRegistry(s.state).Get(id); err != nil {
		return decimal.Zero, err
	}
	hook, ok := s.hooks[id]
	if !ok {
		return decimal.Zero, fmt.Errorf("strategy %s has no hook attached: %w", id, domain.ErrInvalidStrategy)
	}
	return hook.PendingProfit(ctx)
}

// liquidity returns the assets a single exit can draw on
func liquidity(state *domain.VaultState) decimal.Decimal {
	available := state.IdleAssets
	if active := registry.NewRegistry(state).Active(); active != nil {
		available = available.Add(active.AllocatedAssets)
	}
	return available
}
