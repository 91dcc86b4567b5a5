package dashboard

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/simaogato/auravault-backend/internal/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// VaultReader is the read surface of a vault the dashboard needs
type VaultReader interface {
	Name() string
	Symbol() string
	Decimals() int32
	Snapshot() *domain.VaultState
	PendingProfit(ctx context.Context, id uuid.UUID) (decimal.Decimal, error)
}

// StrategySummary describes one registered strategy
type StrategySummary struct {
	ID              uuid.UUID
	Active          bool
	AllocatedAssets decimal.Decimal
	PendingProfit   decimal.Decimal
	PendingError    string // set when the strategy could not report its pending profit
}

// Summary represents the headline figures of a vault
type Summary struct {
	Name            string
	Symbol          string
	Decimals        int32
	Owner           uuid.UUID
	Paused          bool
	TotalAssets     decimal.Decimal
	IdleAssets      decimal.Decimal
	AllocatedAssets decimal.Decimal
	TotalShares     decimal.Decimal
	PricePerShare   decimal.Decimal // Assets paid for one whole share (10^decimals units), rounded down
	Strategies      []StrategySummary
	Operations      int
}

// ActivityPage is a page of the operation journal
type ActivityPage struct {
	Operations []*domain.Operation
	Total      int
	Limit      int
	Offset     int
}

// DashboardService handles dashboard-related operations
type DashboardService struct {
	Vault         VaultReader
	OperationRepo domain.OperationRepository
	logger        *zap.Logger
}

// NewDashboardService creates a new DashboardService instance.
// A nil logger discards output.
func NewDashboardService(vault VaultReader, operationRepo domain.OperationRepository, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		Vault:         vault,
		OperationRepo: operationRepo,
		logger:        logger,
	}
}

// GetSummary calculates the vault summary
// Logic:
//   - Totals come from one consistent snapshot of the vault state
//   - PricePerShare: convertToAssets(10^decimals), so 1:1 while no shares exist
//   - Pending profit is asked from every strategy; a failing strategy reports zero
//     together with the error, which is also logged
func (s *DashboardService) GetSummary(ctx context.Context) (*Summary, error) {
	state := s.Vault.Snapshot()

	count, err := s.OperationRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count operations: %w", err)
	}

	oneShare := decimal.New(1, s.Vault.Decimals())
	price := oneShare
	if !state.TotalShares.IsZero() && !state.TotalAssets.IsZero() {
		price = domain.MulDivFloor(oneShare, state.TotalAssets, state.TotalShares)
	}

	strategies := make([]StrategySummary, 0, len(state.Strategies))
	for _, strategy := range state.Strategies {
		summary := StrategySummary{
			ID:              strategy.ID,
			Active:          strategy.Active,
			AllocatedAssets: strategy.AllocatedAssets,
			PendingProfit:   decimal.Zero,
		}
		pending, err := s.Vault.PendingProfit(ctx, strategy.ID)
		if err != nil {
			s.logger.Warn("pending profit unavailable",
				zap.String("strategy", strategy.ID.String()),
				zap.Error(err),
			)
			summary.PendingError = err.Error()
		} else {
			summary.PendingProfit = pending
		}
		strategies = append(strategies, summary)
	}

	return &Summary{
		Name:            s.Vault.Name(),
		Symbol:          s.Vault.Symbol(),
		Decimals:        s.Vault.Decimals(),
		Owner:           state.Owner,
		Paused:          state.Paused,
		TotalAssets:     state.TotalAssets,
		IdleAssets:      state.IdleAssets,
		AllocatedAssets: state.AllocatedAssets(),
		TotalShares:     state.TotalShares,
		PricePerShare:   price,
		Strategies:      strategies,
		Operations:      count,
	}, nil
}

// ListActivity returns a page of committed operations, newest first.
// A non-positive limit selects the default page size; limits are capped.
func (s *DashboardService) ListActivity(ctx context.Context, limit, offset int) (*ActivityPage, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	ops, err := s.OperationRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}
	total, err := s.OperationRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count operations: %w", err)
	}

	return &ActivityPage{
		Operations: ops,
		Total:      total,
		Limit:      limit,
		Offset:     offset,
	}, nil
}
