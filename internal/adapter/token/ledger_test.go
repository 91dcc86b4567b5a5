package token

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/auravault-backend/internal/domain"
)

func TestLedger_MintAndTransfer(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()
	alice, bob := uuid.New(), uuid.New()

	require.NoError(t, l.Mint(ctx, alice, decimal.NewFromInt(100)))
	require.NoError(t, l.Transfer(ctx, alice, bob, decimal.NewFromInt(30)))

	aliceBalance, _ := l.BalanceOf(ctx, alice)
	bobBalance, _ := l.BalanceOf(ctx, bob)
	assert.True(t, aliceBalance.Equal(decimal.NewFromInt(70)))
	assert.True(t, bobBalance.Equal(decimal.NewFromInt(30)))
	assert.True(t, l.TotalSupply().Equal(decimal.NewFromInt(100)))

	assert.ErrorIs(t, l.Transfer(ctx, alice, bob, decimal.NewFromInt(71)), domain.ErrInsufficientBalance)
	assert.ErrorIs(t, l.Transfer(ctx, alice, uuid.Nil, decimal.NewFromInt(1)), domain.ErrInvalidIdentity)
	assert.ErrorIs(t, l.Mint(ctx, alice, decimal.NewFromInt(-1)), domain.ErrInvalidAmount)
}

func TestLedger_TransferFrom(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()
	owner, spender, to := uuid.New(), uuid.New(), uuid.New()
	require.NoError(t, l.Mint(ctx, owner, decimal.NewFromInt(50)))

	assert.ErrorIs(t, l.TransferFrom(ctx, spender, owner, to, decimal.NewFromInt(1)), domain.ErrInsufficientAllowance)

	require.NoError(t, l.Approve(ctx, owner, spender, decimal.NewFromInt(80)))
	assert.ErrorIs(t, l.TransferFrom(ctx, spender, owner, to, decimal.NewFromInt(60)), domain.ErrInsufficientBalance)

	allowance, _ := l.Allowance(ctx, owner, spender)
	assert.True(t, allowance.Equal(decimal.NewFromInt(80)), "failed transfer keeps the allowance")

	require.NoError(t, l.TransferFrom(ctx, spender, owner, to, decimal.NewFromInt(20)))
	allowance, _ = l.Allowance(ctx, owner, spender)
	assert.True(t, allowance.Equal(decimal.NewFromInt(60)))
	received, _ := l.BalanceOf(ctx, to)
	assert.True(t, received.Equal(decimal.NewFromInt(20)))
}

func TestPort_MovesThroughVaultIdentity(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()
	vault, holder := uuid.New(), uuid.New()
	port := NewPort(l, vault)
	require.NoError(t, l.Mint(ctx, holder, decimal.NewFromInt(10)))

	err := port.TransferIn(ctx, holder, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, domain.ErrInsufficientAllowance)

	require.NoError(t, l.Approve(ctx, holder, vault, decimal.NewFromInt(10)))
	require.NoError(t, port.TransferIn(ctx, holder, decimal.NewFromInt(10)))
	held, _ := port.BalanceOf(ctx, vault)
	assert.True(t, held.Equal(decimal.NewFromInt(10)))

	require.NoError(t, port.TransferOut(ctx, holder, decimal.NewFromInt(4)))
	assert.ErrorIs(t, port.TransferOut(ctx, holder, decimal.NewFromInt(7)), domain.ErrInsufficientBalance)
	back, _ := port.BalanceOf(ctx, holder)
	assert.True(t, back.Equal(decimal.NewFromInt(4)))
}
