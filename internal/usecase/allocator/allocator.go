package allocator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/auravault-backend/internal/domain"
	"github.com/simaogato/auravault-backend/internal/usecase/registry"
	"github.com/simaogato/auravault-backend/internal/usecase/txn"
)

// HookResolver finds the capability attached to a registered strategy
type HookResolver interface {
	Hook(id uuid.UUID) (domain.StrategyHook, bool)
}

// Allocator routes capital between the idle pool of a vault state and its strategies.
// Policy: single active destination. Deposits go entirely to the most recently added
// active strategy, and withdrawals pull their shortfall from that same strategy.
type Allocator struct {
	state   *domain.VaultState
	hooks   HookResolver
	journal *txn.Journal
}

// NewAllocator binds an allocator to a staged vault state.
// Every external effect it performs is recorded in journal for rollback.
func NewAllocator(state *domain.VaultState, hooks HookResolver, journal *txn.Journal) *Allocator {
	return &Allocator{
		state:   state,
		hooks:   hooks,
		journal: journal,
	}
}

// Shortfall returns how much of a payout the idle pool cannot cover
func Shortfall(idle, payout decimal.Decimal) decimal.Decimal {
	if idle.GreaterThanOrEqual(payout) {
		return decimal.Zero
	}
	return payout.Sub(idle)
}

// OnDeposit pushes freshly deposited assets into the active strategy
// Logic:
//  1. Find the active strategy; without one the assets stay idle
//  2. Invoke the strategy's Invest hook with the entire deposit
//  3. Move the amount from idle to the strategy's allocation
//
// The caller must already have added assets to totalAssets and idleAssets.
func (a *Allocator) OnDeposit(ctx context.Context, assets decimal.Decimal) (*domain.Strategy, error) {
	active := registry.NewRegistry(a.state).Active()
	if active == nil || assets.IsZero() {
		return nil, nil
	}

	hook, err := a.hook(active.ID)
	if err != nil {
		return nil, err
	}

	if err := hook.Invest(ctx, assets); err != nil {
		return nil, fmt.Errorf("invest %s in strategy %s: %w", assets, active.ID, err)
	}
	a.journal.Record("invest in strategy "+active.ID.String(), func(ctx context.Context) error {
		freed, err := hook.Divest(ctx, assets)
		if err != nil {
			return err
		}
		if !freed.Equal(assets) {
			return fmt.Errorf("strategy returned %s of %s", freed, assets)
		}
		return nil
	})

	active.AllocatedAssets = active.AllocatedAssets.Add(assets)
	a.state.IdleAssets = a.state.IdleAssets.Sub(assets)

	return active, nil
}

// OnWithdraw makes sure the idle pool can pay out assets
// Logic:
//  1. Compute the shortfall of the idle pool
//  2. Fail with InsufficientLiquidity when the active strategy holds less than the shortfall
//  3. Divest exactly the shortfall; a strategy freeing less aborts the operation
//  4. Move the pulled amount from the strategy's allocation to idle
//
// Returns the amount pulled from the strategy (zero when idle assets suffice).
func (a *Allocator) OnWithdraw(ctx context.Context, assets decimal.Decimal) (decimal.Decimal, error) {
	shortfall := Shortfall(a.state.IdleAssets, assets)
	if shortfall.IsZero() {
		return decimal.Zero, nil
	}

	active := registry.NewRegistry(a.state).Active()
	if active == nil || active.AllocatedAssets.LessThan(shortfall) {
		return decimal.Zero, domain.ErrInsufficientLiquidity
	}

	if err := a.pull(ctx, active, shortfall); err != nil {
		return decimal.Zero, err
	}
	return shortfall, nil
}

// Recall divests the whole allocation of a strategy back to the idle pool,
// which is the precondition for removing it from the registry.
func (a *Allocator) Recall(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	strategy, err := registry.NewRegistry(a.state).Get(id)
	if err != nil {
		return decimal.Zero, err
	}

	allocated := strategy.AllocatedAssets
	if allocated.IsZero() {
		return decimal.Zero, nil
	}

	if err := a.pull(ctx, strategy, allocated); err != nil {
		return decimal.Zero, err
	}
	return allocated, nil
}

// pull divests amount from strategy and credits it to idle
func (a *Allocator) pull(ctx context.Context, strategy *domain.Strategy, amount decimal.Decimal) error {
	hook, err := a.hook(strategy.ID)
	if err != nil {
		return err
	}

	freed, err := hook.Divest(ctx, amount)
	if err != nil {
		return fmt.Errorf("divest %s from strategy %s: %w", amount, strategy.ID, err)
	}
	if freed.IsPositive() {
		a.journal.Record("divest from strategy "+strategy.ID.String(), func(ctx context.Context) error {
			return hook.Invest(ctx, freed)
		})
	}

	// Safety check: the vault accounts for exactly what it asked for
	if freed.LessThan(amount) {
		return fmt.Errorf("strategy %s freed %s of %s: %w", strategy.ID, freed, amount, domain.ErrInsufficientLiquidity)
	}
	if freed.GreaterThan(amount) {
		return fmt.Errorf("strategy %s freed %s, more than the %s requested", strategy.ID, freed, amount)
	}

	strategy.AllocatedAssets = strategy.AllocatedAssets.Sub(amount)
	a.state.IdleAssets = a.state.IdleAssets.Add(amount)
	return nil
}

func (a *Allocator) hook(id uuid.UUID) (domain.StrategyHook, error) {
	hook, ok := a.hooks.Hook(id)
	if !ok {
		return nil, fmt.Errorf("strategy %s has no hook attached: %w", id, domain.ErrInvalidStrategy)
	}
	return hook, nil
}
