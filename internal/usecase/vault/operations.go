package vault

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/auravault-backend/internal/domain"
)

// Deposit pulls assets from the caller and mints shares to receiver
// Logic:
//  1. assets must be positive (ZeroAmount) and the vault not paused (Paused)
//  2. shares = convertToShares(assets), rounded down; ZeroShares if nothing would be minted
//  3. Pull assets from the caller through the asset port
//  4. Mint shares to receiver and grow totalAssets
//  5. Push the deposit into the active strategy
//
// Returns the shares minted.
func (s *VaultService) Deposit(ctx context.Context, assets decimal.Decimal, receiver uuid.UUID) (decimal.Decimal, error) {
	op, err := s.execute(ctx, domain.OperationDeposit, func(st *stage) error {
		if err := requirePositive(assets, domain.ErrZeroAmount); err != nil {
			return err
		}
		if receiver == uuid.Nil {
			return domain.ErrInvalidIdentity
		}
		if err := st.guard().RequireNotPaused(); err != nil {
			return err
		}

		ledger := st.ledger()
		minted := ledger.ConvertToShares(assets)
		if minted.IsZero() {
			return domain.ErrZeroShares
		}

		if err := s.Assets.TransferIn(ctx, st.caller, assets); err != nil {
			return fmt.Errorf("pull %s from %s: %w", assets, st.caller, err)
		}
		from := st.caller
		st.journal.Record("transfer in from "+from.String(), func(ctx context.Context) error {
			return s.Assets.TransferOut(ctx, from, assets)
		})

		if err := ledger.Mint(receiver, minted); err != nil {
			return err
		}
		st.state.TotalAssets = st.state.TotalAssets.Add(assets)
		st.state.IdleAssets = st.state.IdleAssets.Add(assets)

		strategy, err := st.allocator().OnDeposit(ctx, assets)
		if err != nil {
			return err
		}

		st.op.Receiver = &receiver
		st.op.Assets = assets
		st.op.Shares = minted
		if strategy != nil {
			st.op.StrategyID = &strategy.ID
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return op.Shares, nil
}

// Withdraw burns owner's shares worth assets and pays assets to receiver
// Logic:
//  1. assets must be positive (ZeroAmount)
//  2. shares = convertToSharesCeil(assets); owner must hold them (InsufficientShares)
//  3. A caller other than owner spends its share allowance (InsufficientAllowance)
//  4. Source any idle shortfall from the active strategy (InsufficientLiquidity)
//  5. Burn, shrink totalAssets, pay receiver
//
// Returns the shares burned.
func (s *VaultService) Withdraw(ctx context.Context, assets decimal.Decimal, receiver, owner uuid.UUID) (decimal.Decimal, error) {
	op, err := s.execute(ctx, domain.OperationWithdraw, func(st *stage) error {
		if err := requirePositive(assets, domain.ErrZeroAmount); err != nil {
			return err
		}
		if receiver == uuid.Nil {
			return domain.ErrInvalidIdentity
		}

		ledger := st.ledger()
		burned := ledger.ConvertToSharesCeil(assets)
		if ledger.BalanceOf(owner).LessThan(burned) {
			return domain.ErrInsufficientShares
		}
		if err := ledger.SpendAllowance(owner, st.caller, burned); err != nil {
			return err
		}

		if _, err := st.allocator().OnWithdraw(ctx, assets); err != nil {
			return err
		}
		if err := ledger.Burn(owner, burned); err != nil {
			return err
		}
		st.release(receiver, assets)

		st.op.Receiver = &receiver
		st.op.Owner = &owner
		st.op.Assets = assets
		st.op.Shares = burned
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return op.Shares, nil
}

// Redeem burns shares of owner and pays their value to receiver
// Logic:
//  1. shares must be positive (ZeroShares)
//  2. assets = convertToAssets(shares), rounded down; ZeroAmount if that is nothing
//  3. owner must hold the shares; a caller other than owner spends its allowance
//  4. Burn first, then source liquidity and pay receiver
//
// Returns the assets paid.
func (s *VaultService) Redeem(ctx context.Context, shares decimal.Decimal, receiver, owner uuid.UUID) (decimal.Decimal, error) {
	op, err := s.execute(ctx, domain.OperationRedeem, func(st *stage) error {
		if err := requirePositive(shares, domain.ErrZeroShares); err != nil {
			return err
		}
		if receiver == uuid.Nil {
			return domain.ErrInvalidIdentity
		}

		ledger := st.ledger()
		assets := ledger.ConvertToAssets(shares)
		if assets.IsZero() {
			return domain.ErrZeroAmount
		}
		if ledger.BalanceOf(owner).LessThan(shares) {
			return domain.ErrInsufficientShares
		}
		if err := ledger.SpendAllowance(owner, st.caller, shares); err != nil {
			return err
		}

		if err := ledger.Burn(owner, shares); err != nil {
			return err
		}
		if _, err := st.allocator().OnWithdraw(ctx, assets); err != nil {
			return err
		}
		st.release(receiver, assets)

		st.op.Receiver = &receiver
		st.op.Owner = &owner
		st.op.Assets = assets
		st.op.Shares = shares
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return op.Assets, nil
}

// ReportProfit credits profit realized by the calling strategy to the vault.
// No shares are minted, so the value of every share rises.
func (s *VaultService) ReportProfit(ctx context.Context, amount decimal.Decimal) error {
	_, err := s.execute(ctx, domain.OperationReportProfit, func(st *stage) error {
		strategy, err := st.distributor().Report(st.caller, amount)
		if err != nil {
			return err
		}
		st.op.StrategyID = &strategy.ID
		st.op.Assets = amount
		return nil
	})
	return err
}

// TransferShares moves shares from the caller to another holder
func (s *VaultService) TransferShares(ctx context.Context, to uuid.UUID, shares decimal.Decimal) error {
	_, err := s.execute(ctx, domain.OperationTransferShares, func(st *stage) error {
		if err := st.ledger().Transfer(st.caller, to, shares); err != nil {
			return err
		}
		st.op.Receiver = &to
		st.op.Shares = shares
		return nil
	})
	return err
}

// ApproveShares lets spender withdraw or redeem up to shares of the caller's balance
func (s *VaultService) ApproveShares(ctx context.Context, spender uuid.UUID, shares decimal.Decimal) error {
	_, err := s.execute(ctx, domain.OperationApproveShares, func(st *stage) error {
		if err := st.ledger().Approve(st.caller, spender, shares); err != nil {
			return err
		}
		st.op.Receiver = &spender
		st.op.Shares = shares
		return nil
	})
	return err
}

// release takes assets out of the idle pool and schedules their payout
func (st *stage) release(receiver uuid.UUID, assets decimal.Decimal) {
	st.state.TotalAssets = st.state.TotalAssets.Sub(assets)
	st.state.IdleAssets = st.state.IdleAssets.Sub(assets)
	st.payout = &payout{to: receiver, amount: assets}
}

// requirePositive validates an amount and rejects zero with zeroErr
func requirePositive(amount decimal.Decimal, zeroErr error) error {
	if err := domain.ValidateAmount(amount); err != nil {
		return err
	}
	if amount.IsZero() {
		return zeroErr
	}
	return nil
}
