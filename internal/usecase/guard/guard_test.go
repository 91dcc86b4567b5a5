package guard

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/auravault-backend/internal/domain"
)

func TestGuard_OwnerOnly(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()

	tests := []struct {
		name string
		call func(g *Guard, caller uuid.UUID) error
	}{
		{"pause", func(g *Guard, caller uuid.UUID) error { return g.Pause(caller) }},
		{"transfer ownership", func(g *Guard, caller uuid.UUID) error { return g.TransferOwnership(caller, uuid.New()) }},
		{"require owner", func(g *Guard, caller uuid.UUID) error { return g.RequireOwner(caller) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := domain.NewVaultState(owner)
			g := NewGuard(state)

			assert.ErrorIs(t, tt.call(g, stranger), domain.ErrUnauthorized)
			assert.ErrorIs(t, tt.call(g, uuid.Nil), domain.ErrUnauthorized)
			assert.False(t, state.Paused)
			assert.Equal(t, owner, state.Owner)

			assert.NoError(t, tt.call(g, owner))
		})
	}
}

func TestGuard_PauseCycle(t *testing.T) {
	owner := uuid.New()
	state := domain.NewVaultState(owner)
	g := NewGuard(state)

	require.NoError(t, g.RequireNotPaused())
	assert.ErrorIs(t, g.Unpause(owner), domain.ErrNotPaused)

	require.NoError(t, g.Pause(owner))
	assert.ErrorIs(t, g.RequireNotPaused(), domain.ErrPaused)
	assert.ErrorIs(t, g.Pause(owner), domain.ErrPaused)
	assert.ErrorIs(t, g.Unpause(uuid.New()), domain.ErrUnauthorized)

	require.NoError(t, g.Unpause(owner))
	assert.NoError(t, g.RequireNotPaused())
}

func TestGuard_TransferOwnership(t *testing.T) {
	owner, next := uuid.New(), uuid.New()
	state := domain.NewVaultState(owner)
	g := NewGuard(state)

	assert.ErrorIs(t, g.TransferOwnership(owner, uuid.Nil), domain.ErrInvalidIdentity)
	require.NoError(t, g.TransferOwnership(owner, next))

	assert.ErrorIs(t, g.Pause(owner), domain.ErrUnauthorized, "previous owner lost the role")
	assert.NoError(t, g.Pause(next))
}
