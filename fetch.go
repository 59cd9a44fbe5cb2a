package cache

import (
	"context"
	"time"
)

// GetAs is Get with a typed result. Local hits carry the concrete type
// that was Set; remote hits arrive as whatever the codec produced (JSON
// decodes objects to map[string]any), so when the direct type assertion
// fails the value is re-encoded through the codec into T. A value that
// fits neither way counts as a miss.
func GetAs[T any](ctx context.Context, c *Cache, key string) (T, bool) {
	var zero T
	v, ok := c.Get(ctx, key)
	if !ok {
		return zero, false
	}
	return as[T](c, key, v)
}

// as coerces a cached value into T, re-encoding through the codec when
// the direct assertion fails.
func as[T any](c *Cache, key string, v any) (T, bool) {
	if t, ok := v.(T); ok {
		return t, true
	}
	var zero T
	data, err := c.codec.Marshal(v)
	if err != nil {
		c.log.Debug("cached value not convertible", Fields{"key": key, "err": err})
		return zero, false
	}
	var t T
	if err := c.codec.Unmarshal(data, &t); err != nil {
		c.log.Debug("cached value not convertible", Fields{"key": key, "err": err})
		return zero, false
	}
	return t, true
}

// GetOrCompute returns the cached value for key or, on miss, computes and
// stores it. Concurrent callers missing on the same key share a single
// compute; the losers block and receive the winner's result. A compute
// error reaches every waiter and nothing is cached. A waiter that joined
// the flight under a different type parameter coerces the winner's value
// the way GetAs does, falling back to its own compute.
func GetOrCompute[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, tags []string, compute func(context.Context) (T, error)) (T, error) {
	if v, ok := GetAs[T](ctx, c, key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// a racing winner may have populated the key while this call queued
		if v, ok := GetAs[T](ctx, c, key); ok {
			return v, nil
		}
		computed, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(ctx, key, computed, ttl, tags...)
		return computed, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	if t, ok := as[T](c, key, v); ok {
		return t, nil
	}

	// The flight winner computed an incompatible type for this key.
	computed, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.Set(ctx, key, computed, ttl, tags...)
	return computed, nil
}
