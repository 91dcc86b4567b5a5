package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/auravault-backend/internal/domain"
)

// Fixed UUID of the reference strategy deployed with every development vault
var ReferenceStrategyID = uuid.MustParse("00000000-0000-0000-0000-0000000000a1")

// StrategyRegistrar is the vault surface the seeder drives
type StrategyRegistrar interface {
	IsStrategy(id uuid.UUID) bool
	AddStrategy(ctx context.Context, id uuid.UUID, hook domain.StrategyHook) error
}

// HookFactory deploys the hook backing a strategy id
type HookFactory interface {
	NewHook(id uuid.UUID) domain.StrategyHook
}

// StrategySeeder handles registration of configured strategies at startup
type StrategySeeder struct {
	vault StrategyRegistrar
	hooks HookFactory
}

// NewStrategySeeder creates a new StrategySeeder instance
func NewStrategySeeder(vault StrategyRegistrar, hooks HookFactory) *StrategySeeder {
	return &StrategySeeder{
		vault: vault,
		hooks: hooks,
	}
}

// Seed ensures every strategy in ids is registered, acting as owner.
// Strategies that already exist are left alone. Returns the ids that were added.
func (s *StrategySeeder) Seed(ctx context.Context, owner uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	ownerCtx := domain.WithCaller(ctx, owner)

	added := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if s.vault.IsStrategy(id) {
			continue
		}

		err := s.vault.AddStrategy(ownerCtx, id, s.hooks.NewHook(id))
		if errors.Is(err, domain.ErrStrategyAlreadyRegistered) {
			continue
		}
		if err != nil {
			return added, fmt.Errorf("seed strategy %s: %w", id, err)
		}
		added = append(added, id)
	}

	return added, nil
}
