package txn

import (
	"context"
	"errors"
	"fmt"
)

// Journal records compensations for external effects performed while an
// operation is staged. On abort the compensations run in reverse order,
// the same way a database transaction rolls back everything since Begin.
type Journal struct {
	steps []step
}

type step struct {
	name string
	undo func(ctx context.Context) error
}

// NewJournal creates an empty journal
func NewJournal() *Journal {
	return &Journal{}
}

// Record registers the compensation of an effect that already happened
func (j *Journal) Record(name string, undo func(ctx context.Context) error) {
	j.steps = append(j.steps, step{name: name, undo: undo})
}

// Len returns the number of recorded effects
func (j *Journal) Len() int {
	return len(j.steps)
}

// Rollback runs every compensation, newest first.
// It keeps going after a failure and returns all failures joined.
func (j *Journal) Rollback(ctx context.Context) error {
	var errs []error
	for i := len(j.steps) - 1; i >= 0; i-- {
		if err := j.steps[i].undo(ctx); err != nil {
			errs = append(errs, fmt.Errorf("undo %s: %w", j.steps[i].name, err))
		}
	}
	j.steps = nil
	return errors.Join(errs...)
}

// Discard forgets every compensation once the operation has committed
func (j *Journal) Discard() {
	j.steps = nil
}
