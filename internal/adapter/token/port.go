package token

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/auravault-backend/internal/domain"
)

// Port binds a ledger to the identity of a vault so the vault can move the asset
type Port struct {
	Ledger *Ledger
	Vault  uuid.UUID
}

// NewPort creates the asset port of the vault identified by vault
func NewPort(ledger *Ledger, vault uuid.UUID) *Port {
	return &Port{Ledger: ledger, Vault: vault}
}

// TransferIn pulls amount from a holder that approved the vault
func (p *Port) TransferIn(ctx context.Context, from uuid.UUID, amount decimal.Decimal) error {
	if err := p.Ledger.TransferFrom(ctx, p.Vault, from, p.Vault, amount); err != nil {
		return fmt.Errorf("asset transfer from %s: %w", from, err)
	}
	return nil
}

// TransferOut pays amount from the vault's balance
func (p *Port) TransferOut(ctx context.Context, to uuid.UUID, amount decimal.Decimal) error {
	if err := p.Ledger.Transfer(ctx, p.Vault, to, amount); err != nil {
		return fmt.Errorf("asset transfer to %s: %w", to, err)
	}
	return nil
}

func (p *Port) BalanceOf(ctx context.Context, holder uuid.UUID) (decimal.Decimal, error) {
	return p.Ledger.BalanceOf(ctx, holder)
}

func (p *Port) Allowance(ctx context.Context, owner, spender uuid.UUID) (decimal.Decimal, error) {
	return p.Ledger.Allowance(ctx, owner, spender)
}

var _ domain.AssetTransferPort = (*Port)(nil)
