// Package store holds the signed-in user's transaction snapshot on the client.
package store

import (
	"sync"

	"expensetracker/internal/models"
)

// Store keeps the latest transaction list returned by the API. The list is
// only ever replaced as a whole; readers always get their own copy, so no
// caller can observe a partially applied update.
type Store struct {
	mu       sync.RWMutex
	snapshot []models.Transaction
	version  uint64
}

// New creates an empty store.
func New() *Store {
	return &Store{snapshot: []models.Transaction{}}
}

// Replace swaps in a new snapshot. A nil list is stored as empty.
func (s *Store) Replace(txs []models.Transaction) {
	next := make([]models.Transaction, len(txs))
	copy(next, txs)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = next
	s.version++
}

// Snapshot returns a copy of the current transactions in server order.
func (s *Store) Snapshot() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Transaction, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}

// Len returns the number of transactions in the snapshot.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshot)
}

// IsEmpty reports whether there is nothing to display.
func (s *Store) IsEmpty() bool {
	return s.Len() == 0
}

// Version counts replacements since creation.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
