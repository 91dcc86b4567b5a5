package strategy

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/auravault-backend/internal/adapter/token"
	"github.com/simaogato/auravault-backend/internal/domain"
)

// ProfitReporter is the vault surface a strategy reports gains to
type ProfitReporter interface {
	ReportProfit(ctx context.Context, amount decimal.Decimal) error
}

// Simple is a reference strategy that parks invested capital on its own ledger account.
// Anything the account holds above principal is profit not yet reported to the vault.
type Simple struct {
	ID     uuid.UUID
	Vault  uuid.UUID
	Ledger *token.Ledger

	mu        sync.Mutex
	principal decimal.Decimal
}

// NewSimple creates a strategy that takes custody on behalf of vault
func NewSimple(id, vault uuid.UUID, ledger *token.Ledger) *Simple {
	return &Simple{
		ID:        id,
		Vault:     vault,
		Ledger:    ledger,
		principal: decimal.Zero,
	}
}

// Invest moves amount from the vault account to the strategy account
func (s *Simple) Invest(ctx context.Context, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Ledger.Transfer(ctx, s.Vault, s.ID, amount); err != nil {
		return fmt.Errorf("strategy %s invest: %w", s.ID, err)
	}
	s.principal = s.principal.Add(amount)
	return nil
}

// Divest returns up to amount to the vault and reports what was returned
func (s *Simple) Divest(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	held, err := s.Ledger.BalanceOf(ctx, s.ID)
	if err != nil {
		return decimal.Zero, err
	}
	freed := decimal.Min(amount, held)
	if freed.IsZero() {
		return decimal.Zero, nil
	}

	if err := s.Ledger.Transfer(ctx, s.ID, s.Vault, freed); err != nil {
		return decimal.Zero, fmt.Errorf("strategy %s divest: %w", s.ID, err)
	}
	s.principal = decimal.Max(s.principal.Sub(freed), decimal.Zero)
	return freed, nil
}

// PendingProfit returns the account balance above principal
func (s *Simple) PendingProfit(ctx context.Context) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending(ctx)
}

// Principal returns the capital the vault accounts for in this strategy
func (s *Simple) Principal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.principal
}

// Harvest reports pending profit to the vault under the strategy's own identity.
// Returns the amount reported, zero when there was nothing to report.
//
// The strategy lock is released while the vault is called, because the vault
// invokes Invest and Divest while holding its own lock.
func (s *Simple) Harvest(ctx context.Context, vault ProfitReporter) (decimal.Decimal, error) {
	s.mu.Lock()
	pending, err := s.pending(ctx)
	s.mu.Unlock()
	if err != nil {
		return decimal.Zero, err
	}
	if pending.IsZero() {
		return decimal.Zero, nil
	}

	if err := vault.ReportProfit(domain.WithCaller(ctx, s.ID), pending); err != nil {
		return decimal.Zero, fmt.Errorf("strategy %s harvest: %w", s.ID, err)
	}

	s.mu.Lock()
	s.principal = s.principal.Add(pending)
	s.mu.Unlock()
	return pending, nil
}

// pending must be called with the lock held
func (s *Simple) pending(ctx context.Context) (decimal.Decimal, error) {
	held, err := s.Ledger.BalanceOf(ctx, s.ID)
	if err != nil {
		return decimal.Zero, err
	}
	if held.LessThanOrEqual(s.principal) {
		return decimal.Zero, nil
	}
	return held.Sub(s.principal), nil
}

var _ domain.StrategyHook = (*Simple)(nil)
