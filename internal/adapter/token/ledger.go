package token

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/auravault-backend/internal/domain"
)

// Ledger is an in-memory fungible asset with balances and allowances.
// It stands in for the underlying asset of a vault in development and tests.
type Ledger struct {
	mu         sync.RWMutex
	balances   map[uuid.UUID]decimal.Decimal
	allowances map[uuid.UUID]map[uuid.UUID]decimal.Decimal
	supply     decimal.Decimal
}

// NewLedger creates an empty asset ledger
func NewLedger() *Ledger {
	return &Ledger{
		balances:   make(map[uuid.UUID]decimal.Decimal),
		allowances: make(map[uuid.UUID]map[uuid.UUID]decimal.Decimal),
		supply:     decimal.Zero,
	}
}

// Mint creates amount new units for holder
func (l *Ledger) Mint(ctx context.Context, holder uuid.UUID, amount decimal.Decimal) error {
	if holder == uuid.Nil {
		return domain.ErrInvalidIdentity
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[holder] = l.balances[holder].Add(amount)
	l.supply = l.supply.Add(amount)
	return nil
}

// Approve sets how much spender may pull from owner
func (l *Ledger) Approve(ctx context.Context, owner, spender uuid.UUID, amount decimal.Decimal) error {
	if owner == uuid.Nil || spender == uuid.Nil {
		return domain.ErrInvalidIdentity
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	spenders, ok := l.allowances[owner]
	if !ok {
		spenders = make(map[uuid.UUID]decimal.Decimal)
		l.allowances[owner] = spenders
	}
	spenders[spender] = amount
	return nil
}

// Transfer moves amount from one holder to another
func (l *Ledger) Transfer(ctx context.Context, from, to uuid.UUID, amount decimal.Decimal) error {
	if err := validateTransfer(to, amount); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.move(from, to, amount)
}

// TransferFrom moves amount from owner to another holder, spending spender's allowance
func (l *Ledger) TransferFrom(ctx context.Context, spender, from, to uuid.UUID, amount decimal.Decimal) error {
	if err := validateTransfer(to, amount); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	allowed := l.allowances[from][spender]
	if allowed.LessThan(amount) {
		return domain.ErrInsufficientAllowance
	}
	if err := l.move(from, to, amount); err != nil {
		return err
	}
	l.allowances[from][spender] = allowed.Sub(amount)
	return nil
}

// BalanceOf returns the balance of a holder
func (l *Ledger) BalanceOf(ctx context.Context, holder uuid.UUID) (decimal.Decimal, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[holder], nil
}

// Allowance returns how much spender may pull from owner
func (l *Ledger) Allowance(ctx context.Context, owner, spender uuid.UUID) (decimal.Decimal, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.allowances[owner][spender], nil
}

// TotalSupply returns the units minted so far
func (l *Ledger) TotalSupply() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.supply
}

// move must be called with the lock held
func (l *Ledger) move(from, to uuid.UUID, amount decimal.Decimal) error {
	balance := l.balances[from]
	if balance.LessThan(amount) {
		return domain.ErrInsufficientBalance
	}
	l.balances[from] = balance.Sub(amount)
	l.balances[to] = l.balances[to].Add(amount)
	return nil
}

func validateTransfer(to uuid.UUID, amount decimal.Decimal) error {
	if to == uuid.Nil {
		return domain.ErrInvalidIdentity
	}
	return domain.ValidateAmount(amount)
}
