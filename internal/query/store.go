package query

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store holds encoded query results.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

const defaultCleanupInterval = 30 * time.Second

type memEntry struct {
	val       []byte
	expiresAt time.Time
}

func (e memEntry) expired(now time.Time) bool { return now.After(e.expiresAt) }

// MemoryStore is the single-instance store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memEntry
	stopCh  chan struct{}
	stopped atomic.Bool

	hits   atomic.Int64
	misses atomic.Int64
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]memEntry),
		stopCh:  make(chan struct{}),
	}
	go s.cleanupExpired(defaultCleanupInterval)
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok || e.expired(time.Now()) {
		s.misses.Add(1)
		return nil, false, nil
	}
	s.hits.Add(1)
	return e.val, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	s.mu.Lock()
	s.entries[key] = memEntry{val: val, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) DeletePrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			delete(s.entries, k)
		}
	}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Stats returns hit and miss counters.
func (s *MemoryStore) Stats() (hits, misses int64) {
	return s.hits.Load(), s.misses.Load()
}

// Close stops the cleanup goroutine.
func (s *MemoryStore) Close() error {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopCh)
	}
	return nil
}

func (s *MemoryStore) cleanupExpired(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case now := <-t.C:
			s.mu.Lock()
			for k, e := range s.entries {
				if e.expired(now) {
					delete(s.entries, k)
				}
			}
			s.mu.Unlock()
		}
	}
}

// RedisStore shares cached queries between storefront instances.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisStore(client *redis.Client, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "rumal:q:"
	}
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.client.Get(ctx, s.keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return b, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.keyPrefix+key, val, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// DeletePrefix scans instead of KEYS so large keyspaces do not block Redis.
// Key parts are query-escaped, so the prefix never contains glob characters.
func (s *RedisStore) DeletePrefix(ctx context.Context, prefix string) error {
	iter := s.client.Scan(ctx, 0, s.keyPrefix+prefix+"*", 200).Iterator()
	batch := make([]string, 0, 200)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := s.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(batch) > 0 {
		if err := s.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
	}
	return nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

type StoreConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// NewStore uses Redis when configured and reachable, and falls back to the
// in-memory store otherwise.
func NewStore(ctx context.Context, cfg StoreConfig, logger *slog.Logger) Store {
	if cfg.RedisAddr == "" {
		return NewMemoryStore()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, using in-memory query cache",
			slog.String("addr", cfg.RedisAddr), slog.Any("err", err))
		_ = client.Close()
		return NewMemoryStore()
	}
	logger.Info("using redis query cache", slog.String("addr", cfg.RedisAddr))
	return NewRedisStore(client, "")
}
