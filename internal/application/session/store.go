package session

import (
	"sync"
	"time"
)

// PendingInbound is an inbound command waiting for the user to name a
// storage location in a follow-up message.
type PendingInbound struct {
	ProductID   int
	ProductName string
	Quantity    int
}

type entryState struct {
	pending PendingInbound
	touched time.Time
}

// Store keeps per-session dialogue state in memory. Entries expire after
// the configured TTL so abandoned conversations do not pin memory.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entryState

	now func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		entries: make(map[string]entryState),
		now:     time.Now,
	}
}

// AwaitLocation records that the session's next message should be treated
// as a location answer for the given inbound command.
func (s *Store) AwaitLocation(sessionID string, p PendingInbound) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sessionID] = entryState{pending: p, touched: s.now()}
}

// Pending returns the session's pending inbound command, if it exists and
// has not expired. Expired entries are removed on access.
func (s *Store) Pending(sessionID string) (PendingInbound, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.entries[sessionID]
	if !ok {
		return PendingInbound{}, false
	}
	if s.now().Sub(st.touched) > s.ttl {
		delete(s.entries, sessionID)
		return PendingInbound{}, false
	}
	return st.pending, true
}

// Clear drops any pending state for the session.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
}

// Sweep removes every expired entry and reports how many were dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, st := range s.entries {
		if st.touched.Before(cutoff) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of live entries, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
