package domain

import (
	"context"

	"github.com/google/uuid"
)

type callerKey struct{}

// WithCaller returns a context carrying the identity of the calling party
func WithCaller(ctx context.Context, caller uuid.UUID) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFromContext resolves the calling identity set by WithCaller
func CallerFromContext(ctx context.Context) (uuid.UUID, bool) {
	caller, ok := ctx.Value(callerKey{}).(uuid.UUID)
	if !ok || caller == uuid.Nil {
		return uuid.Nil, false
	}
	return caller, true
}
