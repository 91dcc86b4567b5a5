package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/simaogato/auravault-backend/internal/domain"
)

// operationRepository implements domain.OperationRepository in process memory
type operationRepository struct {
	mu  sync.RWMutex
	ops []*domain.Operation
}

// NewOperationRepository creates an empty in-memory operation journal
func NewOperationRepository() domain.OperationRepository {
	return &operationRepository{}
}

// Create appends a copy of op
func (r *operationRepository) Create(ctx context.Context, op *domain.Operation) error {
	stored := *op
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, &stored)
	return nil
}

// Delete removes an operation by ID
func (r *operationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, op := range r.ops {
		if op.ID == id {
			r.ops = append(r.ops[:i], r.ops[i+1:]...)
			return nil
		}
	}
	return domain.ErrOperationNotFound
}

// List returns a page of operations, newest first
func (r *operationRepository) List(ctx context.Context, limit, offset int) ([]*domain.Operation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Operation, 0)
	for i := len(r.ops) - 1 - offset; i >= 0; i-- {
		if limit > 0 && len(result) >= limit {
			break
		}
		op := *r.ops[i]
		result = append(result, &op)
	}
	return result, nil
}

// Count returns the number of stored operations
func (r *operationRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ops), nil
}
