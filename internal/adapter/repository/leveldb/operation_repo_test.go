package leveldb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/auravault-backend/internal/domain"
)

func openRepo(t *testing.T, path string) domain.OperationRepository {
	t.Helper()
	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewOperationRepository(db)
}

func TestOperationRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t, filepath.Join(t.TempDir(), "operations.leveldb"))

	receiver, strategy := uuid.New(), uuid.New()
	op := &domain.Operation{
		ID:          uuid.New(),
		Kind:        domain.OperationDeposit,
		Caller:      uuid.New(),
		Receiver:    &receiver,
		StrategyID:  &strategy,
		Assets:      decimal.RequireFromString("100000000000000000000"),
		Shares:      decimal.RequireFromString("100000000000000000000"),
		TotalAssets: decimal.RequireFromString("100000000000000000000"),
		TotalShares: decimal.RequireFromString("100000000000000000000"),
		Date:        time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Create(ctx, op))

	listed, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	decimals := cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })
	if diff := cmp.Diff(op, listed[0], decimals); diff != "" {
		t.Errorf("stored operation mismatch (-want +got):\n%s", diff)
	}
}

func TestOperationRepository_OrderDeleteAndReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "operations.leveldb")

	db, err := Open(path)
	require.NoError(t, err)
	repo := NewOperationRepository(db)

	ids := make([]uuid.UUID, 0, 4)
	for i := 0; i < 4; i++ {
		op := &domain.Operation{ID: uuid.New(), Kind: domain.OperationPause, Caller: uuid.New(), Date: time.Now().UTC()}
		require.NoError(t, repo.Create(ctx, op))
		ids = append(ids, op.ID)
	}

	require.NoError(t, repo.Delete(ctx, ids[1]))
	assert.ErrorIs(t, repo.Delete(ctx, ids[1]), domain.ErrOperationNotFound)
	require.NoError(t, db.Close())

	// Sequence numbers survive a reopen, so new records still sort last
	repo = openRepo(t, path)
	latest := &domain.Operation{ID: uuid.New(), Kind: domain.OperationUnpause, Caller: uuid.New(), Date: time.Now().UTC()}
	require.NoError(t, repo.Create(ctx, latest))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	listed, err := repo.List(ctx, 0, 0)
	require.NoError(t, err)
	got := make([]uuid.UUID, 0, len(listed))
	for _, op := range listed {
		got = append(got, op.ID)
	}
	assert.Equal(t, []uuid.UUID{latest.ID, ids[3], ids[2], ids[0]}, got)

	page, err := repo.List(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[3], page[0].ID)
	assert.Equal(t, ids[2], page[1].ID)
}
