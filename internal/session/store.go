package session

import (
	"errors"
	"fmt"

	"stafflink/internal/models"
)

// Store is a key-value adapter for persisted identities. Implementations are
// the durable bbolt store and the per-run memory store; tests substitute
// their own.
type Store interface {
	Get(kind models.IdentityKind) (models.Identity, error)
	Set(kind models.IdentityKind, identity models.Identity) error
	Clear(kind models.IdentityKind) error
}

// Manager resolves the current identity for a kind: the durable store is
// consulted first, then the tab-scoped store. Exactly one identity per kind
// can be current.
type Manager struct {
	durable Store
	tab     Store
}

func NewManager(durable, tab Store) *Manager {
	return &Manager{durable: durable, tab: tab}
}

// Current returns the logged-in identity of the given kind, or
// models.ErrNoIdentity when neither store has one. An identity without a
// department is rejected: every downstream component needs it.
func (m *Manager) Current(kind models.IdentityKind) (models.Identity, error) {
	identity, err := m.durable.Get(kind)
	if errors.Is(err, models.ErrNotFound) {
		identity, err = m.tab.Get(kind)
	}
	if errors.Is(err, models.ErrNotFound) {
		return models.Identity{}, models.ErrNoIdentity
	}
	if err != nil {
		return models.Identity{}, fmt.Errorf("session lookup: %w", err)
	}

	if identity.Department == "" {
		return models.Identity{}, fmt.Errorf("identity %d has no department: %w", identity.ID, models.ErrNoIdentity)
	}

	identity.Kind = kind
	return identity, nil
}

// Login stores the identity durably under its kind.
func (m *Manager) Login(identity models.Identity) error {
	return m.durable.Set(identity.Kind, identity)
}

// Logout clears the identity of the given kind from both stores.
func (m *Manager) Logout(kind models.IdentityKind) error {
	if err := m.durable.Clear(kind); err != nil {
		return err
	}
	return m.tab.Clear(kind)
}
