// Package query is a small server-side query cache with explicit
// invalidation. Reads are cached per key and de-duplicated while in flight;
// successful mutations invalidate key prefixes and notify listeners.
package query

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// Notifier receives a topic after a successful mutation in a scope.
// events.Bus implements it.
type Notifier interface {
	Publish(scope, topic string)
}

type Cache struct {
	store       Store
	group       singleflight.Group
	gen         atomic.Uint64
	ttl         time.Duration
	loadTimeout time.Duration
	notify      Notifier
	logger      *slog.Logger
}

type Option func(*Cache)

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithLoadTimeout bounds a shared load. Loads outlive the request that
// started them, so this is their only deadline.
func WithLoadTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.loadTimeout = d
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(c *Cache) { c.notify = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

func New(store Store, opts ...Option) *Cache {
	c := &Cache{
		store:       store,
		ttl:         30 * time.Second,
		loadTimeout: 15 * time.Second,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value for key or loads it with fn. Concurrent
// callers for the same key share a single load, which is detached from any
// one caller's cancellation; each caller stops waiting when its own ctx is
// done. A load that overlaps an invalidation is returned to its callers but
// not stored.
func Get[T any](ctx context.Context, c *Cache, key Key, fn func(context.Context) (T, error)) (T, error) {
	var out T
	k := key.String()

	if b, ok, err := c.store.Get(ctx, k); err != nil {
		c.logger.Warn("query cache read failed", slog.String("key", k), slog.Any("err", err))
	} else if ok {
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
	}

	ch := c.group.DoChan(k, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()

		startGen := c.gen.Load()
		val, err := fn(loadCtx)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("query: encode %s: %w", k, err)
		}
		if c.gen.Load() == startGen {
			if err := c.store.Set(loadCtx, k, b, c.ttl); err != nil {
				c.logger.Warn("query cache write failed", slog.String("key", k), slog.Any("err", err))
			}
		}
		return b, nil
	})

	select {
	case <-ctx.Done():
		return out, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return out, res.Err
		}
		if err := json.Unmarshal(res.Val.([]byte), &out); err != nil {
			return out, fmt.Errorf("query: decode %s: %w", k, err)
		}
		return out, nil
	}
}

// Invalidate drops every cached query that starts with one of the prefixes.
func (c *Cache) Invalidate(ctx context.Context, prefixes ...Key) {
	c.gen.Add(1)
	for _, p := range prefixes {
		if err := c.store.DeletePrefix(ctx, p.String()); err != nil {
			c.logger.Warn("query cache invalidation failed", slog.String("prefix", p.String()), slog.Any("err", err))
		}
	}
}

// Mutation describes what a write affects.
type Mutation struct {
	Invalidates []Key
	Notify      []string
}

// Mutate runs fn. On success the listed prefixes are invalidated and the
// topics published to scope; on failure nothing is touched and the error is
// returned as is. Mutations are never retried.
func (c *Cache) Mutate(ctx context.Context, scope string, m Mutation, fn func(context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	c.Invalidate(ctx, m.Invalidates...)
	if c.notify != nil {
		for _, topic := range m.Notify {
			c.notify.Publish(scope, topic)
		}
	}
	return nil
}
