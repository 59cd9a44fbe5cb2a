// Package remote defines the distributed cache tier: a small key/value
// client contract, the Redis implementation used in production, and a Noop
// stand-in for running without a remote store.
package remote

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable reports that no remote store is configured. Noop.Ping
// returns it so callers can tell "degraded by configuration" apart from a
// configured store that is failing.
var ErrUnavailable = errors.New("remote: no store configured")

// Client is the remote tier contract. Implementations distinguish a miss
// (ok=false, err=nil) from a transport or server failure (err != nil) and
// must be safe for concurrent use.
type Client interface {
	// Get fetches the raw payload stored under key.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key. ttl <= 0 stores without expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Del removes key and reports whether it existed.
	Del(ctx context.Context, key string) (bool, error)

	// SAdd adds members to the set stored under key.
	SAdd(ctx context.Context, key string, members ...string) error
	// SMembers returns every member of the set stored under key.
	SMembers(ctx context.Context, key string) ([]string, error)
	// SRem removes members from the set stored under key.
	SRem(ctx context.Context, key string, members ...string) error

	// Scan walks keys matching pattern from cursor, returning one page and
	// the cursor for the next call. A returned cursor of 0 ends the walk.
	Scan(ctx context.Context, cursor uint64, pattern string, count int64) (keys []string, next uint64, err error)

	// Pipeline starts a batch of Del/SRem commands that Exec flushes in a
	// single round trip.
	Pipeline() Pipeline

	// Ping probes connectivity.
	Ping(ctx context.Context) error
	// Close releases resources the client owns. Safe to call repeatedly.
	Close(ctx context.Context) error
}

// Pipeline accumulates deletions. Commands queue locally until Exec sends
// them together. A Pipeline is single-use and not safe for concurrent use.
type Pipeline interface {
	Del(key string)
	SRem(key, member string)
	Exec(ctx context.Context) error
}
