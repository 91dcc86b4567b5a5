package allocator

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/auravault-backend/internal/domain"
	"github.com/simaogato/auravault-backend/internal/usecase/txn"
)

// MockStrategyHook is a mock implementation of StrategyHook for testing
type MockStrategyHook struct {
	mock.Mock
}

func (m *MockStrategyHook) Invest(ctx context.Context, amount decimal.Decimal) error {
	args := m.Called(ctx, amount)
	return args.Error(0)
}

func (m *MockStrategyHook) Divest(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, amount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockStrategyHook) PendingProfit(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type hookMap map[uuid.UUID]domain.StrategyHook

func (h hookMap) Hook(id uuid.UUID) (domain.StrategyHook, bool) {
	hook, ok := h[id]
	return hook, ok
}

func amount(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func equalAmount(v int64) interface{} {
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(amount(v)) })
}

// fundedState returns a vault state holding idle assets and one strategy with an allocation
func fundedState(idle, allocated int64) (*domain.VaultState, uuid.UUID) {
	state := domain.NewVaultState(uuid.New())
	id := uuid.New()
	state.Strategies = append(state.Strategies, &domain.Strategy{ID: id, Active: true, AllocatedAssets: amount(allocated)})
	state.IdleAssets = amount(idle)
	state.TotalAssets = amount(idle + allocated)
	return state, id
}

func TestShortfall(t *testing.T) {
	assert.True(t, Shortfall(amount(100), amount(40)).IsZero())
	assert.True(t, Shortfall(amount(40), amount(40)).IsZero())
	assert.True(t, Shortfall(amount(10), amount(40)).Equal(amount(30)))
}

func TestOnDeposit_PushesEverythingToActiveStrategy(t *testing.T) {
	// Scenario: 100 units deposited with one active strategy registered
	ctx := context.Background()
	state, id := fundedState(100, 0)
	hook := new(MockStrategyHook)
	hook.On("Invest", ctx, equalAmount(100)).Return(nil).Once()
	alloc := NewAllocator(state, hookMap{id: hook}, txn.NewJournal())

	strategy, err := alloc.OnDeposit(ctx, amount(100))

	require.NoError(t, err)
	require.NotNil(t, strategy)
	assert.Equal(t, id, strategy.ID)
	assert.True(t, state.Strategies[0].AllocatedAssets.Equal(amount(100)))
	assert.True(t, state.IdleAssets.IsZero())
	assert.NoError(t, state.Validate())
	hook.AssertExpectations(t)
}

func TestOnDeposit_PicksMostRecentStrategy(t *testing.T) {
	ctx := context.Background()
	state, older := fundedState(50, 0)
	newer := uuid.New()
	state.Strategies = append(state.Strategies, &domain.Strategy{ID: newer, Active: true, AllocatedAssets: decimal.Zero})
	olderHook, newerHook := new(MockStrategyHook), new(MockStrategyHook)
	newerHook.On("Invest", ctx, equalAmount(50)).Return(nil).Once()
	alloc := NewAllocator(state, hookMap{older: olderHook, newer: newerHook}, txn.NewJournal())

	_, err := alloc.OnDeposit(ctx, amount(50))

	require.NoError(t, err)
	assert.True(t, state.Strategies[1].AllocatedAssets.Equal(amount(50)))
	olderHook.AssertNotCalled(t, "Invest", mock.Anything, mock.Anything)
}

func TestOnDeposit_NoStrategyKeepsAssetsIdle(t *testing.T) {
	state := domain.NewVaultState(uuid.New())
	state.IdleAssets = amount(10)
	state.TotalAssets = amount(10)
	alloc := NewAllocator(state, hookMap{}, txn.NewJournal())

	strategy, err := alloc.OnDeposit(context.Background(), amount(10))

	require.NoError(t, err)
	assert.Nil(t, strategy)
	assert.True(t, state.IdleAssets.Equal(amount(10)))
}

func TestOnDeposit_InvestFailureLeavesAllocationUntouched(t *testing.T) {
	ctx := context.Background()
	state, id := fundedState(100, 0)
	hook := new(MockStrategyHook)
	hook.On("Invest", ctx, equalAmount(100)).Return(errors.New("strategy offline"))
	journal := txn.NewJournal()
	alloc := NewAllocator(state, hookMap{id: hook}, journal)

	_, err := alloc.OnDeposit(ctx, amount(100))

	assert.Error(t, err)
	assert.True(t, state.Strategies[0].AllocatedAssets.IsZero())
	assert.Equal(t, 0, journal.Len())
}

func TestOnDeposit_RollbackDivests(t *testing.T) {
	ctx := context.Background()
	state, id := fundedState(100, 0)
	hook := new(MockStrategyHook)
	hook.On("Invest", ctx, equalAmount(100)).Return(nil).Once()
	hook.On("Divest", ctx, equalAmount(100)).Return(amount(100), nil).Once()
	journal := txn.NewJournal()
	alloc := NewAllocator(state, hookMap{id: hook}, journal)

	_, err := alloc.OnDeposit(ctx, amount(100))
	require.NoError(t, err)

	assert.NoError(t, journal.Rollback(ctx))
	hook.AssertExpectations(t)
}

func TestOnWithdraw_IdleCoversPayout(t *testing.T) {
	state, id := fundedState(80, 20)
	hook := new(MockStrategyHook)
	alloc := NewAllocator(state, hookMap{id: hook}, txn.NewJournal())

	pulled, err := alloc.OnWithdraw(context.Background(), amount(80))

	require.NoError(t, err)
	assert.True(t, pulled.IsZero())
	hook.AssertNotCalled(t, "Divest", mock.Anything, mock.Anything)
}

func TestOnWithdraw_PullsShortfall(t *testing.T) {
	// Scenario: 200 deposited into the strategy, then 50 withdrawn
	ctx := context.Background()
	state, id := fundedState(0, 200)
	hook := new(MockStrategyHook)
	hook.On("Divest", ctx, equalAmount(50)).Return(amount(50), nil).Once()
	alloc := NewAllocator(state, hookMap{id: hook}, txn.NewJournal())

	pulled, err := alloc.OnWithdraw(ctx, amount(50))

	require.NoError(t, err)
	assert.True(t, pulled.Equal(amount(50)))
	assert.True(t, state.Strategies[0].AllocatedAssets.Equal(amount(150)))
	assert.True(t, state.IdleAssets.Equal(amount(50)))
	assert.NoError(t, state.Validate())
}

func TestOnWithdraw_InsufficientLiquidity(t *testing.T) {
	ctx := context.Background()

	t.Run("allocation below shortfall", func(t *testing.T) {
		state, id := fundedState(10, 20)
		hook := new(MockStrategyHook)
		alloc := NewAllocator(state, hookMap{id: hook}, txn.NewJournal())

		_, err := alloc.OnWithdraw(ctx, amount(50))

		assert.ErrorIs(t, err, domain.ErrInsufficientLiquidity)
		hook.AssertNotCalled(t, "Divest", mock.Anything, mock.Anything)
	})

	t.Run("strategy frees less than requested", func(t *testing.T) {
		state, id := fundedState(0, 100)
		hook := new(MockStrategyHook)
		hook.On("Divest", ctx, equalAmount(60)).Return(amount(40), nil).Once()
		hook.On("Invest", ctx, equalAmount(40)).Return(nil).Once()
		journal := txn.NewJournal()
		alloc := NewAllocator(state, hookMap{id: hook}, journal)

		_, err := alloc.OnWithdraw(ctx, amount(60))

		assert.ErrorIs(t, err, domain.ErrInsufficientLiquidity)
		assert.True(t, state.Strategies[0].AllocatedAssets.Equal(amount(100)), "allocation is not touched")
		require.NoError(t, journal.Rollback(ctx), "the partial divest is reinvested")
		hook.AssertExpectations(t)
	})

	t.Run("no strategy", func(t *testing.T) {
		state := domain.NewVaultState(uuid.New())
		alloc := NewAllocator(state, hookMap{}, txn.NewJournal())

		_, err := alloc.OnWithdraw(ctx, amount(1))

		assert.ErrorIs(t, err, domain.ErrInsufficientLiquidity)
	})
}

func TestRecall(t *testing.T) {
	ctx := context.Background()
	state, id := fundedState(5, 95)
	hook := new(MockStrategyHook)
	hook.On("Divest", ctx, equalAmount(95)).Return(amount(95), nil).Once()
	alloc := NewAllocator(state, hookMap{id: hook}, txn.NewJournal())

	recalled, err := alloc.Recall(ctx, id)

	require.NoError(t, err)
	assert.True(t, recalled.Equal(amount(95)))
	assert.True(t, state.Strategies[0].AllocatedAssets.IsZero())
	assert.True(t, state.IdleAssets.Equal(amount(100)))

	_, err = alloc.Recall(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrStrategyNotRegistered)
}

func TestRecall_MissingHook(t *testing.T) {
	state, id := fundedState(0, 10)
	alloc := NewAllocator(state, hookMap{}, txn.NewJournal())

	_, err := alloc.Recall(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrInvalidStrategy)
}
