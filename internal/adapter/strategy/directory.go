package strategy

import (
	"sync"

	"github.com/google/uuid"

	"github.com/simaogato/auravault-backend/internal/adapter/token"
	"github.com/simaogato/auravault-backend/internal/domain"
)

// Directory keeps the reference strategies deployed against one vault
type Directory struct {
	vault  uuid.UUID
	ledger *token.Ledger

	mu         sync.RWMutex
	strategies map[uuid.UUID]*Simple
}

// NewDirectory creates an empty directory for the vault identified by vault
func NewDirectory(vault uuid.UUID, ledger *token.Ledger) *Directory {
	return &Directory{
		vault:      vault,
		ledger:     ledger,
		strategies: make(map[uuid.UUID]*Simple),
	}
}

// Ensure returns the strategy with id, deploying it on first use
func (d *Directory) Ensure(id uuid.UUID) *Simple {
	s, _ := d.Deploy(id)
	return s
}

// Deploy returns the strategy with id and whether this call deployed it
func (d *Directory) Deploy(id uuid.UUID) (*Simple, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if s, ok := d.strategies[id]; ok {
		return s, false
	}
	s := NewSimple(id, d.vault, d.ledger)
	d.strategies[id] = s
	return s, true
}

// Undeploy drops a strategy the vault refused to register
func (d *Directory) Undeploy(id uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.strategies, id)
}

// Get returns a deployed strategy
func (d *Directory) Get(id uuid.UUID) (*Simple, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.strategies[id]
	return s, ok
}

// NewHook deploys (or reuses) the strategy with id as a vault hook
func (d *Directory) NewHook(id uuid.UUID) domain.StrategyHook {
	return d.Ensure(id)
}
