package memory

import (
	"context"
	"sync"

	"sorting-hat-service/internal/domain"
)

// ResultStore is an in-memory implementation of app.ResultRepository.
type ResultStore struct {
	mu      sync.RWMutex
	results map[string]domain.SortingResult
}

func NewResultStore() *ResultStore {
	return &ResultStore{results: make(map[string]domain.SortingResult)}
}

// Save overwrites the user's previous result; last write wins.
func (s *ResultStore) Save(_ context.Context, result domain.SortingResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.UserID] = result
	return nil
}

func (s *ResultStore) Get(_ context.Context, userID string) (domain.SortingResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[userID]
	if !ok {
		return domain.SortingResult{}, domain.ErrResultNotFound
	}
	return result, nil
}
