package domain

import (
	"context"

	"github.com/google/uuid"
)

// OperationRepository defines the interface for the operation journal
type OperationRepository interface {
	// Create appends a committed operation to the journal
	Create(ctx context.Context, op *Operation) error

	// Delete removes an operation whose commit was aborted after it was journaled
	// Returns ErrOperationNotFound if no such operation exists
	Delete(ctx context.Context, id uuid.UUID) error

	// List retrieves a page of operations, newest first
	List(ctx context.Context, limit, offset int) ([]*Operation, error)

	// Count returns the total number of journaled operations
	Count(ctx context.Context) (int, error)
}
