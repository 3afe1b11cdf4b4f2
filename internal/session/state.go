package session

import (
	"sync"

	"github.com/tbourn/go-report-bot/internal/domain"
)

// Store keeps each user's in-flight selection between the operation tap and
// the quantity reply.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]domain.Session
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[int64]domain.Session)}
}

// Begin records the user's selected model and operation and marks the session
// as awaiting a quantity, replacing any earlier selection.
func (s *Store) Begin(userID int64, model, operation string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = domain.Session{
		Model:            model,
		Operation:        operation,
		AwaitingQuantity: true,
	}
}

// Get returns the user's session, if any.
func (s *Store) Get(userID int64) (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	return sess, ok
}

// Len returns the number of users with an in-flight session.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Clear removes the user's session.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
