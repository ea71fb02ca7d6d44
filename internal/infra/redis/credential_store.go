package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// CredentialStore keeps access tokens in Redis so any instance can serve the session.
// Tokens are stored as: SET sorting:credentials:{sessionID}:{key} {token} EX ttl
type CredentialStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCredentialStore(client *redis.Client, ttl time.Duration) *CredentialStore {
	return &CredentialStore{client: client, ttl: ttl}
}

func (s *CredentialStore) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	if sessionID == "" {
		return "", false, nil
	}
	token, err := s.client.Get(ctx, s.key(sessionID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return token, token != "", nil
}

func (s *CredentialStore) Put(ctx context.Context, sessionID, key, token string) error {
	return s.client.Set(ctx, s.key(sessionID, key), token, s.ttl).Err()
}

func (s *CredentialStore) Delete(ctx context.Context, sessionID, key string) error {
	return s.client.Del(ctx, s.key(sessionID, key)).Err()
}

func (s *CredentialStore) key(sessionID, key string) string {
	return "sorting:credentials:" + sessionID + ":" + key
}
