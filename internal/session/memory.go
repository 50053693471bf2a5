package session

import (
	"sync"

	"stafflink/internal/models"
)

// MemoryStore is the tab-scoped session store: identities live only for the
// current run. Also the substitute store in tests.
type MemoryStore struct {
	mux        sync.RWMutex
	identities map[models.IdentityKind]models.Identity
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{identities: make(map[models.IdentityKind]models.Identity)}
}

func (s *MemoryStore) Get(kind models.IdentityKind) (models.Identity, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	identity, ok := s.identities[kind]
	if !ok {
		return models.Identity{}, models.ErrNotFound
	}
	return identity, nil
}

func (s *MemoryStore) Set(kind models.IdentityKind, identity models.Identity) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	s.identities[kind] = identity
	return nil
}

func (s *MemoryStore) Clear(kind models.IdentityKind) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	delete(s.identities, kind)
	return nil
}
