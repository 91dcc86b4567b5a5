package vault

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/auravault-backend/internal/domain"
)

// AddStrategy registers a strategy and attaches its hook. Owner only.
// The new strategy becomes the destination of subsequent deposits.
func (s *VaultService) AddStrategy(ctx context.Context, id uuid.UUID, hook domain.StrategyHook) error {
	_, err := s.execute(ctx, domain.OperationAddStrategy, func(st *stage) error {
		if err := st.guard().RequireOwner(st.caller); err != nil {
			return err
		}
		if hook == nil {
			return domain.ErrInvalidStrategy
		}
		if _, err := st.registry().Add(id); err != nil {
			return err
		}
		st.hooks[id] = hook
		st.op.StrategyID = &id
		return nil
	})
	return err
}

// RemoveStrategy deregisters a strategy that holds no allocated assets. Owner only.
func (s *VaultService) RemoveStrategy(ctx context.Context, id uuid.UUID) error {
	_, err := s.execute(ctx, domain.OperationRemoveStrategy, func(st *stage) error {
		if err := st.guard().RequireOwner(st.caller); err != nil {
			return err
		}
		if _, err := st.registry().Remove(id); err != nil {
			return err
		}
		delete(st.hooks, id)
		st.op.StrategyID = &id
		return nil
	})
	return err
}

// RecallStrategy divests the whole allocation of a strategy into the idle pool. Owner only.
// Returns the assets recalled.
func (s *VaultService) RecallStrategy(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	op, err := s.execute(ctx, domain.OperationRecallStrategy, func(st *stage) error {
		if err := st.guard().RequireOwner(st.caller); err != nil {
			return err
		}
		recalled, err := st.allocator().Recall(ctx, id)
		if err != nil {
			return err
		}
		st.op.StrategyID = &id
		st.op.Assets = recalled
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return op.Assets, nil
}

// Pause stops deposits. Owner only.
func (s *VaultService) Pause(ctx context.Context) error {
	_, err := s.execute(ctx, domain.OperationPause, func(st *stage) error {
		return st.guard().Pause(st.caller)
	})
	return err
}

// Unpause resumes deposits. Owner only.
func (s *VaultService) Unpause(ctx context.Context) error {
	_, err := s.execute(ctx, domain.OperationUnpause, func(st *stage) error {
		return st.guard().Unpause(st.caller)
	})
	return err
}

// TransferOwnership hands the owner role to newOwner. Owner only.
func (s *VaultService) TransferOwnership(ctx context.Context, newOwner uuid.UUID) error {
	_, err := s.execute(ctx, domain.OperationTransferOwnership, func(st *stage) error {
		if err := st.guard().TransferOwnership(st.caller, newOwner); err != nil {
			return err
		}
		st.op.Receiver = &newOwner
		return nil
	})
	return err
}
