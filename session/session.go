// Package session owns the client's credential for the lifetime of the
// process and, via FileStore, across restarts. The store has no expiry logic
// of its own: token lifetime is enforced by the server, and the gateway
// treats any rejected request as expiry.
package session

import (
	"sync"

	"github.com/rosepay/client-go/domain"
)

// Store is the narrow read/write contract every other component goes
// through. The gateway reads on every call; only the login flow and the
// gateway's authorization-failure handler write.
type Store interface {
	// Set replaces the stored credential.
	Set(cred domain.Credential) error
	// Clear removes all credential material.
	Clear() error
	// Get returns the current credential, if any.
	Get() (domain.Credential, bool)
	// IsAuthenticated reports whether a credential is present.
	IsAuthenticated() bool
}

// MemStore keeps the credential in memory only. Used in tests and by
// embedders that manage persistence themselves.
type MemStore struct {
	mu      sync.RWMutex
	cred    domain.Credential
	present bool
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Set(cred domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = cred
	s.present = true
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = domain.Credential{}
	s.present = false
	return nil
}

func (s *MemStore) Get() (domain.Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred, s.present
}

func (s *MemStore) IsAuthenticated() bool {
	_, ok := s.Get()
	return ok
}
