package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Simon-Kral/Coderr/internal/domains/identity/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore keeps auth tokens in memory for development and tests.
type SessionStore struct {
	mu     sync.RWMutex
	tokens map[string]string // token -> username
}

func NewSessionStore() *SessionStore {
	return &SessionStore{tokens: map[string]string{}}
}

func (s *SessionStore) Save(_ context.Context, username, token string) error {
	username = strings.TrimSpace(username)
	token = strings.TrimSpace(token)
	if username == "" || token == "" {
		return errors.New("username and token are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = username
	return nil
}

func (s *SessionStore) Delete(_ context.Context, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, owner := range s.tokens {
		if owner == username {
			delete(s.tokens, token)
		}
	}
	return nil
}

func (s *SessionStore) Resolve(_ context.Context, token string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	username, ok := s.tokens[strings.TrimSpace(token)]
	if !ok {
		return "", ports.ErrTokenUnknown
	}
	return username, nil
}
