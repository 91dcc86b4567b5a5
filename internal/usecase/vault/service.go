package vault

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/simaogato/auravault-backend/internal/domain"
	"github.com/simaogato/auravault-backend/internal/usecase/allocator"
	"github.com/simaogato/auravault-backend/internal/usecase/guard"
	"github.com/simaogato/auravault-backend/internal/usecase/profit"
	"github.com/simaogato/auravault-backend/internal/usecase/registry"
	"github.com/simaogato/auravault-backend/internal/usecase/shares"
	"github.com/simaogato/auravault-backend/internal/usecase/txn"
)

// Metadata describes the share token issued by a vault
type Metadata struct {
	Name      string
	Symbol    string
	Decimals  int32
	AssetCode string // Currency code of the underlying asset, used for display only
}

// VaultService is the vault orchestrator.
// All operations are serialized by a single lock; each one runs against a staged
// copy of the state that replaces the live state only when the operation commits.
type VaultService struct {
	Assets        domain.AssetTransferPort
	OperationRepo domain.OperationRepository

	meta   Metadata
	logger *zap.Logger
	now    func() time.Time

	mu    sync.RWMutex
	state *domain.VaultState
	hooks map[uuid.UUID]domain.StrategyHook
}

// NewVaultService creates a vault deployed by owner with zero totals.
// A nil logger disables logging.
func NewVaultService(
	meta Metadata,
	owner uuid.UUID,
	assets domain.AssetTransferPort,
	operationRepo domain.OperationRepository,
	logger *zap.Logger,
) (*VaultService, error) {
	if owner == uuid.Nil {
		return nil, fmt.Errorf("vault owner: %w", domain.ErrInvalidIdentity)
	}
	if assets == nil {
		return nil, errors.New("asset transfer port is required")
	}
	if operationRepo == nil {
		return nil, errors.New("operation repository is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &VaultService{
		Assets:        assets,
		OperationRepo: operationRepo,
		meta:          meta,
		logger:        logger.With(zap.String("vault", meta.Symbol)),
		now:           time.Now,
		state:         domain.NewVaultState(owner),
		hooks:         make(map[uuid.UUID]domain.StrategyHook),
	}, nil
}

// payout is an asset transfer out of the vault, executed only once the operation is journaled
type payout struct {
	to     uuid.UUID
	amount decimal.Decimal
}

// stage holds everything an operation touches before it commits
type stage struct {
	caller  uuid.UUID
	state   *domain.VaultState
	hooks   map[uuid.UUID]domain.StrategyHook
	journal *txn.Journal
	payout  *payout
	op      *domain.Operation
}

// Hook resolves strategy hooks as staged by the running operation
func (st *stage) Hook(id uuid.UUID) (domain.StrategyHook, bool) {
	hook, ok := st.hooks[id]
	return hook, ok
}

func (st *stage) ledger() *shares.Ledger { return shares.NewLedger(st.state) }

func (st *stage) guard() *guard.Guard { return guard.NewGuard(st.state) }

func (st *stage) allocator() *allocator.Allocator {
	return allocator.NewAllocator(st.state, st, st.journal)
}

func (st *stage) registry() *registry.Registry { return registry.NewRegistry(st.state) }

func (st *stage) distributor() *profit.Distributor { return profit.NewDistributor(st.state) }

// execute runs one vault operation atomically
// Logic:
//  1. Resolve the caller and take the vault lock
//  2. Apply the operation to a staged clone, recording compensations for external effects
//  3. Check the vault invariants on the staged state
//  4. Journal the operation, then pay out assets
//  5. Swap the staged state in
//
// Any failure rolls back the recorded effects and leaves the live state untouched.
func (s *VaultService) execute(ctx context.Context, kind domain.OperationKind, apply func(st *stage) error) (*domain.Operation, error) {
	caller, ok := domain.CallerFromContext(ctx)
	if !ok {
		return nil, domain.ErrNoCaller
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.begin(caller, kind)

	if err := apply(st); err != nil {
		return nil, s.abort(ctx, st, err)
	}

	if err := st.state.Validate(); err != nil {
		return nil, s.abort(ctx, st, fmt.Errorf("staged state rejected: %w", err))
	}

	st.op.TotalAssets = st.state.TotalAssets
	st.op.TotalShares = st.state.TotalShares
	st.op.Date = s.now()
	if err := s.OperationRepo.Create(ctx, st.op); err != nil {
		return nil, s.abort(ctx, st, fmt.Errorf("journal operation: %w", err))
	}

	// A payout cannot be compensated, so it runs last
	if st.payout != nil {
		if err := s.Assets.TransferOut(ctx, st.payout.to, st.payout.amount); err != nil {
			err = fmt.Errorf("pay %s to %s: %w", st.payout.amount, st.payout.to, err)
			if delErr := s.OperationRepo.Delete(context.WithoutCancel(ctx), st.op.ID); delErr != nil {
				err = errors.Join(err, fmt.Errorf("remove journaled operation %s: %w", st.op.ID, delErr))
			}
			return nil, s.abort(ctx, st, err)
		}
	}

	s.state = st.state
	s.hooks = st.hooks
	st.journal.Discard()

	s.logger.Info("vault operation committed",
		zap.String("kind", string(kind)),
		zap.String("operation_id", st.op.ID.String()),
		zap.String("caller", caller.String()),
		zap.String("assets", st.op.Assets.String()),
		zap.String("shares", st.op.Shares.String()),
		zap.String("total_assets", st.state.TotalAssets.String()),
		zap.String("total_shares", st.state.TotalShares.String()),
	)
	return st.op, nil
}

func (s *VaultService) begin(caller uuid.UUID, kind domain.OperationKind) *stage {
	hooks := make(map[uuid.UUID]domain.StrategyHook, len(s.hooks))
	for id, hook := range s.hooks {
		hooks[id] = hook
	}

	return &stage{
		caller:  caller,
		state:   s.state.Clone(),
		hooks:   hooks,
		journal: txn.NewJournal(),
		op: &domain.Operation{
			ID:     uuid.New(),
			Kind:   kind,
			Caller: caller,
			Assets: decimal.Zero,
			Shares: decimal.Zero,
		},
	}
}

// abort compensates the external effects of a failed operation and drops its staged state
func (s *VaultService) abort(ctx context.Context, st *stage, cause error) error {
	effects := st.journal.Len()
	if err := st.journal.Rollback(context.WithoutCancel(ctx)); err != nil {
		s.logger.Error("vault operation rollback incomplete",
			zap.String("kind", string(st.op.Kind)),
			zap.String("caller", st.caller.String()),
			zap.NamedError("cause", cause),
			zap.Error(err),
		)
		return errors.Join(cause, err)
	}

	s.logger.Warn("vault operation aborted",
		zap.String("kind", string(st.op.Kind)),
		zap.String("caller", st.caller.String()),
		zap.Int("compensated_effects", effects),
		zap.Error(cause),
	)
	return cause
}
