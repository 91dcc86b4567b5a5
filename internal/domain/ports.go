package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetTransferPort moves units of the underlying asset between holders and the vault.
// Failures are reported synchronously (ErrInsufficientBalance, ErrInsufficientAllowance)
// and abort the calling vault operation.
type AssetTransferPort interface {
	// TransferIn pulls amount from a holder into the vault, spending the holder's allowance
	TransferIn(ctx context.Context, from uuid.UUID, amount decimal.Decimal) error

	// TransferOut pays amount from the vault to a holder
	TransferOut(ctx context.Context, to uuid.UUID, amount decimal.Decimal) error

	// BalanceOf returns the asset balance of a holder
	BalanceOf(ctx context.Context, holder uuid.UUID) (decimal.Decimal, error)

	// Allowance returns how much spender may pull from owner
	Allowance(ctx context.Context, owner, spender uuid.UUID) (decimal.Decimal, error)
}

// StrategyHook is the capability a strategy implements to hold vault capital.
// The vault invokes it synchronously while holding its lock, so implementations
// must not call back into the vault.
type StrategyHook interface {
	// Invest takes custody of amount from the vault
	Invest(ctx context.Context, amount decimal.Decimal) error

	// Divest returns up to amount to the vault and reports how much was actually freed
	Divest(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error)

	// PendingProfit returns profit the strategy holds but has not reported yet
	PendingProfit(ctx context.Context) (decimal.Decimal, error)
}
