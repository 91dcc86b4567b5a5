package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/auravault-backend/internal/domain"
)

// operationRepository implements domain.OperationRepository
type operationRepository struct {
	db *DB
}

// NewOperationRepository creates a new operation repository
func NewOperationRepository(db *DB) domain.OperationRepository {
	return &operationRepository{db: db}
}

// Create inserts a committed operation
func (r *operationRepository) Create(ctx context.Context, op *domain.Operation) error {
	query := `
		INSERT INTO operations (id, kind, caller, receiver, owner, strategy_id, assets, shares, total_assets, total_shares, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		op.ID,
		string(op.Kind),
		op.Caller,
		nullableID(op.Receiver),
		nullableID(op.Owner),
		nullableID(op.StrategyID),
		op.Assets.String(),
		op.Shares.String(),
		op.TotalAssets.String(),
		op.TotalShares.String(),
		op.Date,
	)
	if err != nil {
		return fmt.Errorf("failed to create operation: %w", err)
	}

	return nil
}

// Delete removes an operation whose commit was aborted
func (r *operationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Start a database transaction
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	result, err := dbTx.ExecContext(ctx, `DELETE FROM operations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete operation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrOperationNotFound
	}

	// Commit the transaction
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// List retrieves a page of operations, newest first
func (r *operationRepository) List(ctx context.Context, limit, offset int) ([]*domain.Operation, error) {
	query := `
		SELECT id, kind, caller, receiver, owner, strategy_id, assets, shares, total_assets, total_shares, date
		FROM operations
		ORDER BY seq DESC
		LIMIT $1 OFFSET $2
	`

	// LIMIT NULL means no limit
	var limitArg interface{}
	if limit > 0 {
		limitArg = limit
	}

	rows, err := r.db.QueryContext(ctx, query, limitArg, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.Operation, 0)
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate operations: %w", err)
	}

	return result, nil
}

// Count returns the total number of journaled operations
func (r *operationRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM operations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count operations: %w", err)
	}
	return count, nil
}

func scanOperation(rows *sql.Rows) (*domain.Operation, error) {
	var op domain.Operation
	var receiver, owner, strategyID sql.NullString
	var assetsStr, sharesStr, totalAssetsStr, totalSharesStr string

	err := rows.Scan(
		&op.ID,
		&op.Kind,
		&op.Caller,
		&receiver,
		&owner,
		&strategyID,
		&assetsStr,
		&sharesStr,
		&totalAssetsStr,
		&totalSharesStr,
		&op.Date,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan operation: %w", err)
	}

	// Parse nullable identities
	for _, field := range []struct {
		name string
		raw  sql.NullString
		dst  **uuid.UUID
	}{
		{"receiver", receiver, &op.Receiver},
		{"owner", owner, &op.Owner},
		{"strategy_id", strategyID, &op.StrategyID},
	} {
		if !field.raw.Valid {
			continue
		}
		id, err := uuid.Parse(field.raw.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", field.name, err)
		}
		*field.dst = &id
	}

	// Parse amounts (NUMERIC)
	for _, field := range []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"assets", assetsStr, &op.Assets},
		{"shares", sharesStr, &op.Shares},
		{"total_assets", totalAssetsStr, &op.TotalAssets},
		{"total_shares", totalSharesStr, &op.TotalShares},
	} {
		amount, err := decimal.NewFromString(field.raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", field.name, err)
		}
		*field.dst = amount
	}

	return &op, nil
}

// nullableID maps an optional identity to a SQL parameter
func nullableID(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return *id
}
