package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store records login tokens. No handler enforces them; the set exists so
// issued tokens can be introspected and expired.
type Store interface {
	Add(ctx context.Context, token string) error
	Has(ctx context.Context, token string) (bool, error)
}

// DeriveToken maps a username to its demo token. Deterministic: the same
// username always yields the same token.
func DeriveToken(username string) string {
	return "token-" + username
}

// MemoryStore keeps tokens for the process lifetime.
type MemoryStore struct {
	mu     sync.Mutex
	tokens map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]struct{})}
}

func (s *MemoryStore) Add(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = struct{}{}
	return nil
}

func (s *MemoryStore) Has(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tokens[token]
	return ok, nil
}

// RedisStore keeps tokens in Redis with a TTL, so sessions survive process
// restarts and expire on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Add(ctx context.Context, token string) error {
	return s.client.Set(ctx, sessionKey(token), "1", s.ttl).Err()
}

func (s *RedisStore) Has(ctx context.Context, token string) (bool, error) {
	_, err := s.client.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}
