package memory

import (
	"context"
	"sync"
)

// CredentialStore keeps access tokens per session in process memory.
type CredentialStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{tokens: make(map[string]string)}
}

// Get returns the token stored under key for sessionID; ok is false when absent.
func (s *CredentialStore) Get(_ context.Context, sessionID, key string) (string, bool, error) {
	if sessionID == "" {
		return "", false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[sessionID+"/"+key]
	return token, ok && token != "", nil
}

func (s *CredentialStore) Put(_ context.Context, sessionID, key, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[sessionID+"/"+key] = token
	return nil
}

func (s *CredentialStore) Delete(_ context.Context, sessionID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, sessionID+"/"+key)
	return nil
}
