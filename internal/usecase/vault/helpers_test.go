package vault

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/auravault-backend/internal/domain"
)

func units(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func as(id uuid.UUID) context.Context { return domain.WithCaller(context.Background(), id) }

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

// fakeAssets is an in-memory asset port; holders must approve the vault before depositing
type fakeAssets struct {
	mu         sync.Mutex
	balances   map[uuid.UUID]decimal.Decimal
	allowances map[uuid.UUID]decimal.Decimal
	vault      decimal.Decimal
	failOut    error
}

func newFakeAssets() *fakeAssets {
	return &fakeAssets{
		balances:   make(map[uuid.UUID]decimal.Decimal),
		allowances: make(map[uuid.UUID]decimal.Decimal),
		vault:      decimal.Zero,
	}
}

// fund mints amount to holder and approves the vault for all of it
func (f *fakeAssets) fund(holder uuid.UUID, amount decimal.Decimal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[holder] = f.balances[holder].Add(amount)
	f.allowances[holder] = f.allowances[holder].Add(amount)
}

func (f *fakeAssets) TransferIn(ctx context.Context, from uuid.UUID, amount decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.allowances[from].LessThan(amount) {
		return domain.ErrInsufficientAllowance
	}
	if f.balances[from].LessThan(amount) {
		return domain.ErrInsufficientBalance
	}
	f.allowances[from] = f.allowances[from].Sub(amount)
	f.balances[from] = f.balances[from].Sub(amount)
	f.vault = f.vault.Add(amount)
	return nil
}

func (f *fakeAssets) TransferOut(ctx context.Context, to uuid.UUID, amount decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOut != nil {
		return f.failOut
	}
	f.vault = f.vault.Sub(amount)
	f.balances[to] = f.balances[to].Add(amount)
	return nil
}

func (f *fakeAssets) BalanceOf(ctx context.Context, holder uuid.UUID) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[holder], nil
}

func (f *fakeAssets) Allowance(ctx context.Context, owner, spender uuid.UUID) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.allowances[owner], nil
}

func (f *fakeAssets) balance(holder uuid.UUID) decimal.Decimal {
	b, _ := f.BalanceOf(context.Background(), holder)
	return b
}

// fakeStrategy keeps invested capital and can be told to misbehave
type fakeStrategy struct {
	mu        sync.Mutex
	held      decimal.Decimal
	pending   decimal.Decimal
	failIn    error
	shortfall decimal.Decimal // withheld from every divest
}

func newFakeStrategy() *fakeStrategy {
	return &fakeStrategy{held: decimal.Zero, pending: decimal.Zero, shortfall: decimal.Zero}
}

func (s *fakeStrategy) Invest(ctx context.Context, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failIn != nil {
		return s.failIn
	}
	s.held = s.held.Add(amount)
	return nil
}

func (s *fakeStrategy) Divest(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	freed := decimal.Max(amount.Sub(s.shortfall), decimal.Zero)
	s.held = s.held.Sub(freed)
	return freed, nil
}

func (s *fakeStrategy) PendingProfit(ctx context.Context) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending, nil
}

func (s *fakeStrategy) holding() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.held
}

// memoryOperations is a slice backed operation journal
type memoryOperations struct {
	mu        sync.Mutex
	ops       []*domain.Operation
	createErr error
}

func (m *memoryOperations) Create(ctx context.Context, op *domain.Operation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.ops = append(m.ops, op)
	return nil
}

func (m *memoryOperations) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, op := range m.ops {
		if op.ID == id {
			m.ops = append(m.ops[:i], m.ops[i+1:]...)
			return nil
		}
	}
	return domain.ErrOperationNotFound
}

func (m *memoryOperations) List(ctx context.Context, limit, offset int) ([]*domain.Operation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Operation, 0, len(m.ops))
	for i := len(m.ops) - 1; i >= 0; i-- {
		out = append(out, m.ops[i])
	}
	if offset >= len(out) {
		return []*domain.Operation{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryOperations) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ops), nil
}

func (m *memoryOperations) kinds() []domain.OperationKind {
	m.mu.Lock()
	defer m.mu.Unlock()
	kinds := make([]domain.OperationKind, 0, len(m.ops))
	for _, op := range m.ops {
		kinds = append(kinds, op.Kind)
	}
	return kinds
}

// MockOperationRepository is a mock implementation of OperationRepository for testing
type MockOperationRepository struct {
	mock.Mock
}

func (m *MockOperationRepository) Create(ctx context.Context, op *domain.Operation) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

func (m *MockOperationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOperationRepository) List(ctx context.Context, limit, offset int) ([]*domain.Operation, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Operation), args.Error(1)
}

func (m *MockOperationRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type fixture struct {
	owner  uuid.UUID
	assets *fakeAssets
	ops    *memoryOperations
	vault  *VaultService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	owner := uuid.New()
	assets := newFakeAssets()
	ops := &memoryOperations{}
	v, err := NewVaultService(Metadata{Name: "Aura Vault USD", Symbol: "avUSD", Decimals: 18, AssetCode: "USDX"}, owner, assets, ops, nil)
	require.NoError(t, err)
	return &fixture{owner: owner, assets: assets, ops: ops, vault: v}
}

// addStrategy registers a fresh fake strategy as the owner
func (f *fixture) addStrategy(t *testing.T) (uuid.UUID, *fakeStrategy) {
	t.Helper()
	id := uuid.New()
	hook := newFakeStrategy()
	require.NoError(t, f.vault.AddStrategy(as(f.owner), id, hook))
	return id, hook
}

// deposit funds a new holder and deposits amount for them
func (f *fixture) deposit(t *testing.T, amount int64) (uuid.UUID, decimal.Decimal) {
	t.Helper()
	holder := uuid.New()
	f.assets.fund(holder, units(amount))
	minted, err := f.vault.Deposit(as(holder), units(amount), holder)
	require.NoError(t, err)
	return holder, minted
}

// requireUnchanged fails when the live state differs from before
func (f *fixture) requireUnchanged(t *testing.T, before *domain.VaultState) {
	t.Helper()
	if diff := cmp.Diff(before, f.vault.Snapshot(), decimalComparer); diff != "" {
		t.Fatalf("vault state changed (-before +after):\n%s", diff)
	}
}

var errBoom = errors.New("boom")
