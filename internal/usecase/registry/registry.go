package registry

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/auravault-backend/internal/domain"
)

// Registry manages the ordered set of strategies of a vault state.
// Authorization is the caller's job; the registry only enforces membership rules.
type Registry struct {
	state *domain.VaultState
}

// NewRegistry binds a registry to a vault state
func NewRegistry(state *domain.VaultState) *Registry {
	return &Registry{state: state}
}

// Add appends a new active strategy with no allocation
func (r *Registry) Add(id uuid.UUID) (*domain.Strategy, error) {
	if id == uuid.Nil {
		return nil, domain.ErrInvalidIdentity
	}
	if r.indexOf(id) >= 0 {
		return nil, domain.ErrStrategyAlreadyRegistered
	}

	strategy := &domain.Strategy{
		ID:              id,
		Active:          true,
		AllocatedAssets: decimal.Zero,
	}
	r.state.Strategies = append(r.state.Strategies, strategy)
	return strategy, nil
}

// Remove deactivates a strategy and drops it from the enumerable set.
// The strategy must have been divested completely first.
func (r *Registry) Remove(id uuid.UUID) (*domain.Strategy, error) {
	i := r.indexOf(id)
	if i < 0 {
		return nil, domain.ErrStrategyNotRegistered
	}

	strategy := r.state.Strategies[i]
	if !strategy.AllocatedAssets.IsZero() {
		return nil, domain.ErrStrategyNotEmpty
	}

	strategy.Active = false
	// Keep the relative order of the remaining strategies
	r.state.Strategies = append(r.state.Strategies[:i:i], r.state.Strategies[i+1:]...)
	return strategy, nil
}

// Get returns the record of a registered strategy
func (r *Registry) Get(id uuid.UUID) (*domain.Strategy, error) {
	i := r.indexOf(id)
	if i < 0 {
		return nil, domain.ErrStrategyNotRegistered
	}
	return r.state.Strategies[i], nil
}

// IsStrategy reports whether id is a registered, active strategy
func (r *Registry) IsStrategy(id uuid.UUID) bool {
	i := r.indexOf(id)
	return i >= 0 && r.state.Strategies[i].Active
}

// At returns the strategy id at a position of the enumeration
func (r *Registry) At(index int) (uuid.UUID, error) {
	if index < 0 || index >= len(r.state.Strategies) {
		return uuid.Nil, domain.ErrStrategyNotRegistered
	}
	return r.state.Strategies[index].ID, nil
}

// List returns strategy ids in insertion order
func (r *Registry) List() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.state.Strategies))
	for _, strategy := range r.state.Strategies {
		ids = append(ids, strategy.ID)
	}
	return ids
}

// Active returns the deposit destination: the most recently added active strategy.
// Returns nil when no strategy is registered.
func (r *Registry) Active() *domain.Strategy {
	for i := len(r.state.Strategies) - 1; i >= 0; i-- {
		if r.state.Strategies[i].Active {
			return r.state.Strategies[i]
		}
	}
	return nil
}

func (r *Registry) indexOf(id uuid.UUID) int {
	for i, strategy := range r.state.Strategies {
		if strategy.ID == id {
			return i
		}
	}
	return -1
}
