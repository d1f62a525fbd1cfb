// Package cache is a small in-memory TTL cache for provider responses.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type Observer interface {
	CacheHit()
	CacheMiss()
}

type entry[T any] struct {
	val T
	exp time.Time
}

type Cache[T any] struct {
	mu    sync.RWMutex
	m     map[string]entry[T]
	ttl   time.Duration
	obs   Observer
	group singleflight.Group
	now   func() time.Time

	lastSweep time.Time
}

func New[T any](ttl time.Duration, obs Observer) *Cache[T] {
	return &Cache[T]{m: make(map[string]entry[T]), ttl: ttl, obs: obs, now: time.Now}
}

func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok || c.now().After(e.exp) {
		if ok {
			c.evict(key)
		}
		if c.obs != nil {
			c.obs.CacheMiss()
		}
		return zero, false
	}
	if c.obs != nil {
		c.obs.CacheHit()
	}
	return e.val, true
}

// Set stores v under key. At most once per TTL it also drops every expired
// entry, so keys that are never read again do not accumulate.
func (c *Cache[T]) Set(key string, v T) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	if now.Sub(c.lastSweep) >= c.ttl {
		for k, e := range c.m {
			if now.After(e.exp) {
				delete(c.m, k)
			}
		}
		c.lastSweep = now
	}
	c.m[key] = entry[T]{val: v, exp: now.Add(c.ttl)}
}

func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// GetOrLoad returns the cached value for key or calls load once for all
// concurrent callers missing the same key. Errors are not cached.
//
// The shared load runs detached from any single caller's cancellation; each
// caller stops waiting when its own ctx is done.
func (c *Cache[T]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		val, err := load(loadCtx)
		if err != nil {
			return val, err
		}
		c.Set(key, val)
		return val, nil
	})
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case res := <-ch:
		val, _ := res.Val.(T)
		return val, res.Err
	}
}

func (c *Cache[T]) evict(key string) {
	c.mu.Lock()
	if e, ok := c.m[key]; ok && c.now().After(e.exp) {
		delete(c.m, key)
	}
	c.mu.Unlock()
}
