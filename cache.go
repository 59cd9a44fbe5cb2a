package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/NextSpark-js/nextspark-sub008/codec"
	"github.com/NextSpark-js/nextspark-sub008/memstore"
	"github.com/NextSpark-js/nextspark-sub008/remote"
)

const (
	// nearExpiryGuard is the minimum remaining lifetime a remote entry needs
	// to be admitted on read. Anything closer to expiry is served as a miss
	// so a local copy can never outlive the remote one.
	nearExpiryGuard = 100 * time.Millisecond

	// clearScanCount is the SCAN page size used by Clear.
	clearScanCount = 100
)

var errNoExpiry = errors.New("envelope has no expiry")

// Cache is the two-tier facade: a bounded in-process store in front of an
// optional shared remote store. Reads try the local tier first, then the
// remote one with write-back; writes land in both. The remote tier is an
// accelerator, not a dependency: every remote failure is absorbed and the
// call continues on the local tier, so the worst case is a cold read.
type Cache struct {
	ns          string
	mem         *memstore.Store
	remote      remote.Client
	codec       codec.Codec
	log         Logger
	hooks       Hooks
	defaultTTL  time.Duration
	closeRemote bool

	group singleflight.Group

	closeOnce sync.Once
	closeErr  error
}

// entryKey namespaces a user key on the remote tier.
func (c *Cache) entryKey(key string) string { return c.ns + ":" + key }

// tagKey names the remote index set for tag.
func (c *Cache) tagKey(tag string) string { return c.ns + ":tag:" + tag }

// Get returns the cached value for key. A local hit is served as stored; a
// remote hit is decoded and written back to the local tier with its
// remaining lifetime before being returned. Corrupt remote entries are
// deleted on read and near-expiry ones skipped, both served as misses.
func (c *Cache) Get(ctx context.Context, key string) (any, bool) {
	if v, ok := c.mem.Get(key); ok {
		c.hooks.Hit(TierLocal)
		return v, true
	}

	storageKey := c.entryKey(key)
	raw, ok, err := c.remote.Get(ctx, storageKey)
	if err != nil {
		c.remoteFailed("get", key, err)
		c.hooks.Miss()
		return nil, false
	}
	if !ok {
		c.hooks.Miss()
		return nil, false
	}

	var env envelope
	if err := c.codec.Unmarshal(raw, &env); err != nil {
		c.selfHeal(ctx, storageKey, "decode", err)
		c.hooks.Miss()
		return nil, false
	}
	if env.TTL <= 0 {
		c.selfHeal(ctx, storageKey, "envelope", errNoExpiry)
		c.hooks.Miss()
		return nil, false
	}

	remaining := env.remaining(time.Now())
	if remaining < nearExpiryGuard {
		c.hooks.NearExpirySkip(key)
		c.log.Debug("remote entry too close to expiry; treated as miss", Fields{"key": key, "remaining": remaining.String()})
		c.hooks.Miss()
		return nil, false
	}

	c.mem.Set(key, env.Value, remaining, env.Tags)
	c.hooks.Hit(TierRemote)
	return env.Value, true
}

// Set stores value in both tiers under ttl and associates tags for later
// InvalidateByTag. ttl <= 0 means the configured default. The local write
// always happens; a failed remote write leaves it in place and the tag
// index is only updated after the remote value write succeeded.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration, tags ...string) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.mem.Set(key, value, ttl, tags)

	data, err := c.codec.Marshal(newEnvelope(value, tags, time.Now().Add(ttl)))
	if err != nil {
		c.log.Warn("value not serializable; remote tier skipped", Fields{"key": key, "err": err})
		return
	}
	if err := c.remote.Set(ctx, c.entryKey(key), data, ttl); err != nil {
		c.remoteFailed("set", key, err)
		return
	}
	for _, tag := range tags {
		if err := c.remote.SAdd(ctx, c.tagKey(tag), key); err != nil {
			c.remoteFailed("sadd", key, err)
		}
	}
}

// Delete removes key from both tiers and reports whether either held it.
// Tag index sets are left alone; a stale member resolves to a no-op delete
// on the next tag invalidation.
func (c *Cache) Delete(ctx context.Context, key string) bool {
	removed := c.mem.Delete(key)

	existed, err := c.remote.Del(ctx, c.entryKey(key))
	if err != nil {
		c.remoteFailed("del", key, err)
		return removed
	}
	return removed || existed
}

// InvalidateByTag removes every entry tagged tag from both tiers and
// returns the number of local entries removed. Remote members and their
// index entries are cleared in one pipelined round trip; a failed flush
// leaves them to their TTLs and reports zero remote removals. Other
// replicas keep their stale local copies until TTL either way.
func (c *Cache) InvalidateByTag(ctx context.Context, tag string) int {
	removed := c.mem.InvalidateTag(tag)

	members, err := c.remote.SMembers(ctx, c.tagKey(tag))
	if err != nil {
		c.remoteFailed("smembers", tag, err)
		c.hooks.TagInvalidated(tag, removed, 0)
		return removed
	}
	deleted := len(members)
	if len(members) > 0 {
		pipe := c.remote.Pipeline()
		for _, member := range members {
			pipe.Del(c.entryKey(member))
			pipe.SRem(c.tagKey(tag), member)
		}
		if err := pipe.Exec(ctx); err != nil {
			c.remoteFailed("pipeline", tag, err)
			deleted = 0
		}
	}
	c.hooks.TagInvalidated(tag, removed, deleted)
	c.log.Debug("tag invalidated", Fields{"tag": tag, "local": removed, "remote": deleted})
	return removed
}

// Clear empties the local tier and deletes every namespaced remote key,
// tag indexes included, walking SCAN pages of clearScanCount. Each page is
// deleted before the next cursor is fetched, so a failure partway leaves
// visited pages gone and the rest to their TTLs. Keys outside the
// namespace are never touched.
func (c *Cache) Clear(ctx context.Context) {
	c.mem.Clear()

	pattern := c.ns + ":*"
	var cursor uint64
	for {
		keys, next, err := c.remote.Scan(ctx, cursor, pattern, clearScanCount)
		if err != nil {
			c.remoteFailed("scan", pattern, err)
			return
		}
		if len(keys) > 0 {
			pipe := c.remote.Pipeline()
			for _, k := range keys {
				pipe.Del(k)
			}
			if err := pipe.Exec(ctx); err != nil {
				c.remoteFailed("pipeline", pattern, err)
				return
			}
		}
		if next == 0 {
			return
		}
		cursor = next
	}
}

// Stats is a point-in-time snapshot of cache health.
type Stats struct {
	LocalSize       int  // entries in the local tier, expired-but-unswept included
	LocalCapacity   int  // local tier bound
	RemoteAvailable bool // remote tier configured and answering
}

// Stats reports local occupancy and remote reachability.
func (c *Cache) Stats(ctx context.Context) Stats {
	return Stats{
		LocalSize:       c.mem.Len(),
		LocalCapacity:   c.mem.Cap(),
		RemoteAvailable: c.Available(ctx),
	}
}

// Available reports whether the remote tier is configured and reachable.
func (c *Cache) Available(ctx context.Context) bool {
	return c.remote.Ping(ctx) == nil
}

// Close stops the local sweeper and, when the facade owns it, releases the
// remote client. Safe to call more than once; repeat calls return the
// first result.
func (c *Cache) Close(ctx context.Context) error {
	c.closeOnce.Do(func() {
		c.mem.Close()
		if c.closeRemote {
			if err := c.remote.Close(ctx); err != nil {
				c.hooks.RemoteError("close", err)
				c.log.Warn("remote client close failed", Fields{"err": err})
				c.closeErr = err
			}
		}
	})
	return c.closeErr
}

// remoteFailed records a degraded remote operation. Callers continue on
// the local tier; remote errors never reach cache users.
func (c *Cache) remoteFailed(op, key string, err error) {
	c.hooks.RemoteError(op, err)
	c.log.Warn("remote cache operation failed; continuing degraded", Fields{"op": op, "key": key, "err": err})
}

// selfHeal drops a remote entry that cannot be decoded so later reads stop
// paying for it. Best effort: a failed delete is only reported.
func (c *Cache) selfHeal(ctx context.Context, storageKey, reason string, err error) {
	c.hooks.SelfHeal(storageKey, reason)
	c.log.Warn("dropping corrupt remote entry", Fields{"key": storageKey, "reason": reason, "err": err})
	if _, derr := c.remote.Del(ctx, storageKey); derr != nil {
		c.remoteFailed("del", storageKey, derr)
	}
}
