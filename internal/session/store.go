package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mercadito/console/model"
)

// Store holds backend credentials keyed by session id. Token and full name
// are saved and cleared together so a session can never hold one without
// the other.
type Store interface {
	// Save records credentials under a session id with a TTL.
	Save(ctx context.Context, sessionID string, creds model.Credentials, ttl time.Duration) error

	// Get returns the credentials for a session id. found is false for
	// unknown or expired sessions.
	Get(ctx context.Context, sessionID string) (creds model.Credentials, found bool, err error)

	// Clear removes a session. Clearing an unknown session is a no-op.
	Clear(ctx context.Context, sessionID string) error
}

// --- MemoryStore ---

// MemoryStore is an in-memory Store with TTL support. Suitable for testing
// and single-instance deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memEntry

	now func() time.Time
}

type memEntry struct {
	creds     model.Credentials
	expiresAt time.Time
}

// NewMemoryStore creates a new in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memEntry),
		now:     time.Now,
	}
}

// Save records credentials with a TTL.
func (s *MemoryStore) Save(_ context.Context, sessionID string, creds model.Credentials, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[sessionID] = &memEntry{
		creds:     creds,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

// Get looks up a session, dropping it if the TTL has passed.
func (s *MemoryStore) Get(_ context.Context, sessionID string) (model.Credentials, bool, error) {
	s.mu.RLock()
	entry, exists := s.entries[sessionID]
	s.mu.RUnlock()

	if !exists {
		return model.Credentials{}, false, nil
	}

	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, sessionID)
		s.mu.Unlock()
		return model.Credentials{}, false, nil
	}

	return entry.creds, true, nil
}

// Clear removes a session.
func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}

// Len returns the number of entries (including expired ones). For testing.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// HealthCheck always succeeds for the in-memory store.
func (s *MemoryStore) HealthCheck(context.Context) error { return nil }

// --- RedisStore ---

// RedisStore is a Redis-backed Store for multi-instance deployments.
// The key format is "session:{sessionId}".
type RedisStore struct {
	client redis.Cmdable
}

// NewRedisStore creates a new Redis-backed session store.
func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// Save records credentials in Redis with a TTL.
func (s *RedisStore) Save(ctx context.Context, sessionID string, creds model.Credentials, ttl time.Duration) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("marshal session %q: %w", sessionID, err)
	}

	if err := s.client.Set(ctx, sessionKey(sessionID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", sessionID, err)
	}
	return nil
}

// Get looks up a session in Redis.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (model.Credentials, bool, error) {
	raw, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err == redis.Nil {
		return model.Credentials{}, false, nil
	}
	if err != nil {
		return model.Credentials{}, false, fmt.Errorf("redis get %q: %w", sessionID, err)
	}

	var creds model.Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return model.Credentials{}, false, fmt.Errorf("unmarshal session %q: %w", sessionID, err)
	}
	return creds, true, nil
}

// Clear removes a session from Redis.
func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", sessionID, err)
	}
	return nil
}

// HealthCheck pings Redis.
func (s *RedisStore) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
