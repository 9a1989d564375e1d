package memory

import (
	"context"
	"sync"

	"github.com/facturafacil/facturafacil/internal/cache"
	"github.com/facturafacil/facturafacil/internal/model"
)

// Sessions is an in-process session store with the same contract as the
// Redis-backed one in package cache.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]model.Session
}

// NewSessions returns an empty session store.
func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[string]model.Session)}
}

func (s *Sessions) SaveSession(ctx context.Context, key string, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[key] = *session
	return nil
}

func (s *Sessions) GetSession(ctx context.Context, key string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[key]
	if !ok || session.IsExpired() {
		return nil, cache.ErrSessionNotFound
	}
	return &session, nil
}

func (s *Sessions) DeleteSession(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
	return nil
}

// Len reports how many sessions are stored.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
