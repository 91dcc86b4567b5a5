package profit

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/auravault-backend/internal/domain"
	"github.com/simaogato/auravault-backend/internal/usecase/registry"
)

// Distributor credits strategy gains to a vault state.
// Profit raises the value of every share because nothing is minted for it.
type Distributor struct {
	state *domain.VaultState
}

// NewDistributor binds a distributor to a staged vault state
func NewDistributor(state *domain.VaultState) *Distributor {
	return &Distributor{state: state}
}

// Report applies profit realized by the calling strategy
// Logic:
//  1. The caller must be a registered, active strategy (NotStrategy otherwise)
//  2. The amount must be a non-negative integer; zero is a no-op report
//  3. Add the amount to totalAssets and to the strategy's allocation
//
// Returns the strategy record that was credited.
func (d *Distributor) Report(caller uuid.UUID, amount decimal.Decimal) (*domain.Strategy, error) {
	reg := registry.NewRegistry(d.state)
	if !reg.IsStrategy(caller) {
		return nil, domain.ErrNotStrategy
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	strategy, err := reg.Get(caller)
	if err != nil {
		return nil, err
	}

	strategy.AllocatedAssets = strategy.AllocatedAssets.Add(amount)
	d.state.TotalAssets = d.state.TotalAssets.Add(amount)
	return strategy, nil
}
