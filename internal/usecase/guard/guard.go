package guard

import (
	"github.com/google/uuid"

	"github.com/simaogato/auravault-backend/internal/domain"
)

// Guard enforces single-owner authorization and the pause flag of a vault state
type Guard struct {
	state *domain.VaultState
}

// NewGuard binds a guard to a vault state
func NewGuard(state *domain.VaultState) *Guard {
	return &Guard{state: state}
}

// RequireOwner fails with ErrUnauthorized unless caller is the recorded owner
func (g *Guard) RequireOwner(caller uuid.UUID) error {
	if caller == uuid.Nil || caller != g.state.Owner {
		return domain.ErrUnauthorized
	}
	return nil
}

// RequireNotPaused fails with ErrPaused while the vault is paused
func (g *Guard) RequireNotPaused() error {
	if g.state.Paused {
		return domain.ErrPaused
	}
	return nil
}

// Pause halts deposits
func (g *Guard) Pause(caller uuid.UUID) error {
	if err := g.RequireOwner(caller); err != nil {
		return err
	}
	if g.state.Paused {
		return domain.ErrPaused
	}
	g.state.Paused = true
	return nil
}

// Unpause resumes deposits
func (g *Guard) Unpause(caller uuid.UUID) error {
	if err := g.RequireOwner(caller); err != nil {
		return err
	}
	if !g.state.Paused {
		return domain.ErrNotPaused
	}
	g.state.Paused = false
	return nil
}

// TransferOwnership hands the owner role to another identity
func (g *Guard) TransferOwnership(caller, newOwner uuid.UUID) error {
	if err := g.RequireOwner(caller); err != nil {
		return err
	}
	if newOwner == uuid.Nil {
		return domain.ErrInvalidIdentity
	}
	g.state.Owner = newOwner
	return nil
}
