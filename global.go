package cache

import (
	"context"
	"sync"
	"time"
)

var (
	defaultMu    sync.Mutex
	defaultCache *Cache
)

// Default returns the process-wide cache, building it from the environment
// on first use (see OptionsFromEnv). An unusable environment falls back to
// a zero-config local cache, so Default never fails; check Available when
// the remote tier is load-bearing.
func Default() *Cache {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultCache == nil {
		defaultCache = newDefault()
	}
	return defaultCache
}

func newDefault() *Cache {
	opts, err := OptionsFromEnv()
	if err == nil {
		if c, nerr := New(opts); nerr == nil {
			return c
		}
		if opts.Remote != nil && opts.CloseRemote {
			_ = opts.Remote.Close(context.Background())
		}
	}
	c, _ := New(Options{}) // zero options cannot fail
	return c
}

// SetDefault replaces the process-wide cache and returns the previous one,
// if any, so the caller can close it.
func SetDefault(c *Cache) *Cache {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := defaultCache
	defaultCache = c
	return prev
}

// ResetDefault closes and discards the process-wide cache. The next
// Default call builds a fresh one.
func ResetDefault(ctx context.Context) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultCache == nil {
		return nil
	}
	err := defaultCache.Close(ctx)
	defaultCache = nil
	return err
}

// Get reads key through the process-wide cache.
func Get(ctx context.Context, key string) (any, bool) { return Default().Get(ctx, key) }

// Set writes through the process-wide cache.
func Set(ctx context.Context, key string, value any, ttl time.Duration, tags ...string) {
	Default().Set(ctx, key, value, ttl, tags...)
}

// Delete removes key through the process-wide cache.
func Delete(ctx context.Context, key string) bool { return Default().Delete(ctx, key) }

// InvalidateByTag invalidates tag through the process-wide cache.
func InvalidateByTag(ctx context.Context, tag string) int {
	return Default().InvalidateByTag(ctx, tag)
}

// Clear empties the process-wide cache.
func Clear(ctx context.Context) { Default().Clear(ctx) }

// GetStats snapshots the process-wide cache.
func GetStats(ctx context.Context) Stats { return Default().Stats(ctx) }

// Available reports remote reachability of the process-wide cache.
func Available(ctx context.Context) bool { return Default().Available(ctx) }
