package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

type cached[T any] struct {
	value     T
	fetchedAt time.Time
	expiresAt time.Time
}

// ttlCache caches provider payloads per key. Fresh entries are served
// until expiresAt; on a provider error an entry younger than staleTTL is
// served instead of the error. Concurrent misses for one key share a single
// upstream call, which runs detached from any one caller's cancellation and
// is bounded by fetchTimeout instead.
type ttlCache[T any] struct {
	name         string
	ttl          time.Duration
	staleTTL     time.Duration
	fetchTimeout time.Duration
	now          func() time.Time
	logger       zerolog.Logger

	mu              sync.RWMutex
	entries         map[string]*cached[T]
	lastCleanup     time.Time
	cleanupInterval time.Duration

	group singleflight.Group
}

func newTTLCache[T any](name string, ttl, staleTTL, fetchTimeout time.Duration, now func() time.Time, logger zerolog.Logger) *ttlCache[T] {
	return &ttlCache[T]{
		name:            name,
		ttl:             ttl,
		staleTTL:        staleTTL,
		fetchTimeout:    fetchTimeout,
		now:             now,
		logger:          logger,
		entries:         make(map[string]*cached[T]),
		cleanupInterval: 5 * time.Minute,
	}
}

type fetchResult[T any] struct {
	value T
	stale bool
}

// get returns the cached value for key or calls fetch. stale reports
// whether an expired entry was served because fetch failed. A caller whose
// ctx ends stops waiting without cancelling the fetch other callers share.
func (c *ttlCache[T]) get(ctx context.Context, key string, fetch func(context.Context) (T, error)) (T, bool, error) {
	var zero T

	c.mu.RLock()
	if e, ok := c.entries[key]; ok && c.now().Before(e.expiresAt) {
		c.mu.RUnlock()
		return e.value, false, nil
	}
	c.mu.RUnlock()

	ch := c.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()

		value, err := fetch(fetchCtx)
		if err != nil {
			c.mu.RLock()
			e, ok := c.entries[key]
			c.mu.RUnlock()
			if ok && c.now().Before(e.fetchedAt.Add(c.staleTTL)) {
				c.logger.Warn().
					Err(err).
					Str("cache", c.name).
					Str("key", key).
					Time("fetched_at", e.fetchedAt).
					Msg("serving stale data due to provider error")
				return fetchResult[T]{value: e.value, stale: true}, nil
			}
			return nil, err
		}

		now := c.now()
		c.mu.Lock()
		c.entries[key] = &cached[T]{value: value, fetchedAt: now, expiresAt: now.Add(c.ttl)}
		c.cleanupIfNeeded(now)
		c.mu.Unlock()

		return fetchResult[T]{value: value}, nil
	})

	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, false, res.Err
		}
		v := res.Val.(fetchResult[T])
		return v.value, v.stale, nil
	}
}

// cleanupIfNeeded drops entries too old to be served even as stale. The
// caller holds mu.
func (c *ttlCache[T]) cleanupIfNeeded(now time.Time) {
	if now.Sub(c.lastCleanup) < c.cleanupInterval {
		return
	}
	c.lastCleanup = now

	expired := 0
	for key, e := range c.entries {
		if now.After(e.fetchedAt.Add(c.staleTTL)) {
			delete(c.entries, key)
			expired++
		}
	}
	if expired > 0 {
		c.logger.Debug().Str("cache", c.name).Int("expired_entries", expired).Msg("cleaned up expired cache entries")
	}
}

func (c *ttlCache[T]) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cached[T])
}

func (c *ttlCache[T]) stats() (total, fresh int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	for _, e := range c.entries {
		if now.Before(e.expiresAt) {
			fresh++
		}
	}
	return len(c.entries), fresh
}
