package store

import (
	"sync"

	"github.com/givetix/donation-bridge/internal/domain"
)

// AttemptStore holds one DonationAttempt per order identifier in memory.
// Put replaces the whole record for a key; there is no partial merge and
// no eviction. Safe for concurrent use.
type AttemptStore struct {
	mu       sync.RWMutex
	attempts map[string]domain.DonationAttempt
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{attempts: make(map[string]domain.DonationAttempt)}
}

func (s *AttemptStore) Put(a domain.DonationAttempt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[a.OrderID] = a
}

func (s *AttemptStore) Get(orderID string) (domain.DonationAttempt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.attempts[orderID]
	return a, ok
}

// List returns a copied snapshot; writes after the call are not visible in
// the returned slice. Order is unspecified.
func (s *AttemptStore) List() []domain.DonationAttempt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.DonationAttempt, 0, len(s.attempts))
	for _, a := range s.attempts {
		out = append(out, a)
	}
	return out
}

func (s *AttemptStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.attempts)
}
