package shares

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/auravault-backend/internal/domain"
)

// Ledger tracks share balances, allowances and total supply of a vault state,
// and converts between assets and shares at the rate implied by that state.
//
// Rounding contract:
//   - ConvertToShares (deposit) and ConvertToAssets (redeem) round down
//   - ConvertToSharesCeil (withdraw) rounds the share cost up
//
// so every rounding error stays inside the vault.
type Ledger struct {
	state *domain.VaultState
}

// NewLedger binds a ledger to a vault state
func NewLedger(state *domain.VaultState) *Ledger {
	return &Ledger{state: state}
}

// bootstrap reports whether conversions run at the initial 1:1 rate
func (l *Ledger) bootstrap() bool {
	return l.state.TotalShares.IsZero() || l.state.TotalAssets.IsZero()
}

// ConvertToShares returns floor(assets * totalShares / totalAssets), or assets while no shares exist
func (l *Ledger) ConvertToShares(assets decimal.Decimal) decimal.Decimal {
	if l.bootstrap() {
		return assets
	}
	return domain.MulDivFloor(assets, l.state.TotalShares, l.state.TotalAssets)
}

// ConvertToSharesCeil returns ceil(assets * totalShares / totalAssets), or assets while no shares exist
func (l *Ledger) ConvertToSharesCeil(assets decimal.Decimal) decimal.Decimal {
	if l.bootstrap() {
		return assets
	}
	return domain.MulDivCeil(assets, l.state.TotalShares, l.state.TotalAssets)
}

// ConvertToAssets returns floor(shares * totalAssets / totalShares), or shares while no shares exist
func (l *Ledger) ConvertToAssets(shares decimal.Decimal) decimal.Decimal {
	if l.bootstrap() {
		return shares
	}
	return domain.MulDivFloor(shares, l.state.TotalAssets, l.state.TotalShares)
}

// BalanceOf returns the share balance of a holder
func (l *Ledger) BalanceOf(holder uuid.UUID) decimal.Decimal {
	return l.state.Balances[holder]
}

// Allowance returns how many of owner's shares spender may move
func (l *Ledger) Allowance(owner, spender uuid.UUID) decimal.Decimal {
	return l.state.Allowances[owner][spender]
}

// Mint credits shares to holder and grows the total supply
func (l *Ledger) Mint(holder uuid.UUID, shares decimal.Decimal) error {
	if holder == uuid.Nil {
		return domain.ErrInvalidIdentity
	}
	if err := domain.ValidateAmount(shares); err != nil {
		return err
	}
	l.state.Balances[holder] = l.state.Balances[holder].Add(shares)
	l.state.TotalShares = l.state.TotalShares.Add(shares)
	return nil
}

// Burn debits shares from holder and shrinks the total supply.
// A holder burned down to zero keeps a zero entry.
func (l *Ledger) Burn(holder uuid.UUID, shares decimal.Decimal) error {
	if err := domain.ValidateAmount(shares); err != nil {
		return err
	}
	balance := l.state.Balances[holder]
	if balance.LessThan(shares) {
		return domain.ErrInsufficientShares
	}
	l.state.Balances[holder] = balance.Sub(shares)
	l.state.TotalShares = l.state.TotalShares.Sub(shares)
	return nil
}

// Transfer moves shares between holders without changing the supply
func (l *Ledger) Transfer(from, to uuid.UUID, shares decimal.Decimal) error {
	if to == uuid.Nil {
		return domain.ErrInvalidIdentity
	}
	if err := domain.ValidateAmount(shares); err != nil {
		return err
	}
	balance := l.state.Balances[from]
	if balance.LessThan(shares) {
		return domain.ErrInsufficientShares
	}
	l.state.Balances[from] = balance.Sub(shares)
	l.state.Balances[to] = l.state.Balances[to].Add(shares)
	return nil
}

// Approve sets how many of owner's shares spender may move
func (l *Ledger) Approve(owner, spender uuid.UUID, shares decimal.Decimal) error {
	if spender == uuid.Nil {
		return domain.ErrInvalidIdentity
	}
	if err := domain.ValidateAmount(shares); err != nil {
		return err
	}
	spenders, ok := l.state.Allowances[owner]
	if !ok {
		spenders = make(map[uuid.UUID]decimal.Decimal)
		l.state.Allowances[owner] = spenders
	}
	spenders[spender] = shares
	return nil
}

// SpendAllowance consumes spender's allowance over owner's shares.
// Owners never need an allowance over their own shares.
func (l *Ledger) SpendAllowance(owner, spender uuid.UUID, shares decimal.Decimal) error {
	if owner == spender || shares.IsZero() {
		return nil
	}
	allowed := l.Allowance(owner, spender)
	if allowed.LessThan(shares) {
		return domain.ErrInsufficientAllowance
	}
	l.state.Allowances[owner][spender] = allowed.Sub(shares)
	return nil
}
