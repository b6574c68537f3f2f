// Package session keeps one independent transcript per web session.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spherical-ai/esg-assistant/internal/domain"
)

// ErrNotFound indicates an unknown or expired session.
var ErrNotFound = errors.New("session not found")

// Store persists the turns of each session, persona excluded.
type Store interface {
	Load(ctx context.Context, id string) ([]domain.Turn, error)
	Save(ctx context.Context, id string, turns []domain.Turn) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// MemoryStore implements Store in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
	ttl  time.Duration
	now  func() time.Time
}

type memoryEntry struct {
	turns     []domain.Turn
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory store. A zero ttl keeps sessions forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		data: make(map[string]memoryEntry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Load returns a copy of the stored turns.
func (s *MemoryStore) Load(_ context.Context, id string) ([]domain.Turn, error) {
	s.mu.RLock()
	entry, ok := s.data[id]
	s.mu.RUnlock()

	if !ok || s.expired(entry) {
		return nil, ErrNotFound
	}
	out := make([]domain.Turn, len(entry.turns))
	copy(out, entry.turns)
	return out, nil
}

// Save replaces the stored turns and refreshes the expiry.
func (s *MemoryStore) Save(_ context.Context, id string, turns []domain.Turn) error {
	entry := memoryEntry{turns: make([]domain.Turn, len(turns))}
	copy(entry.turns, turns)
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
	s.data[id] = entry
	return nil
}

// Delete removes a session.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && s.now().After(e.expiresAt)
}

func (s *MemoryStore) purgeLocked() {
	for id, e := range s.data {
		if s.expired(e) {
			delete(s.data, id)
		}
	}
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// RedisStore implements Store using Redis, one JSON value per session.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "esg:session:"
	}

	return &RedisStore{client: client, prefix: prefix, ttl: cfg.TTL}, nil
}

// Load retrieves the turns of a session.
func (s *RedisStore) Load(ctx context.Context, id string) ([]domain.Turn, error) {
	val, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var turns []domain.Turn
	if err := json.Unmarshal(val, &turns); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return turns, nil
}

// Save stores the turns of a session with the configured TTL.
func (s *RedisStore) Save(ctx context.Context, id string, turns []domain.Turn) error {
	if turns == nil {
		turns = []domain.Turn{}
	}
	data, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}
	if err := s.client.Set(ctx, s.prefix+id, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes a session.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.prefix+id).Err(); err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
