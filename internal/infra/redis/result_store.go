package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"sorting-hat-service/internal/domain"
)

// ResultStore records the latest sorting result per user in Redis.
type ResultStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResultStore(client *redis.Client, ttl time.Duration) *ResultStore {
	return &ResultStore{client: client, ttl: ttl}
}

func (s *ResultStore) Save(ctx context.Context, result domain.SortingResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(result.UserID), raw, s.ttl).Err()
}

func (s *ResultStore) Get(ctx context.Context, userID string) (domain.SortingResult, error) {
	raw, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.SortingResult{}, domain.ErrResultNotFound
	}
	if err != nil {
		return domain.SortingResult{}, err
	}
	var result domain.SortingResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return domain.SortingResult{}, err
	}
	return result, nil
}

func (s *ResultStore) key(userID string) string {
	return "sorting:result:" + userID
}
