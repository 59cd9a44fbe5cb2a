// Package cache implements the two-tier cache behind NextSpark data
// loading: a bounded in-process tier in front of an optional shared Redis
// tier.
//
// Components:
//   - memstore.Store: in-process tier. FIFO-bounded map with per-entry TTL
//     and tag membership.
//   - remote.Client: distributed tier contract. remote.Redis in production,
//     remote.Noop when none is configured.
//   - codec.Codec: envelope (de)serialization. JSON by default so other
//     runtimes sharing the store read the same entries.
//
// Remote keys:
//
//	<ns>:<key>     - value envelopes {"value":...,"tags":[...],"ttl":<unix ms>}
//	<ns>:tag:<tag> - index sets holding the member keys tagged <tag>
//
// Failure posture: the remote tier is an accelerator, not a dependency.
// Remote failures are absorbed (logged and surfaced through Hooks) and the
// call continues on the local tier, so the worst case is the cold-cache
// cost of the read being accelerated.
//
// Usage:
//
//	c, err := cache.New(cache.Options{Namespace: "app", Remote: rc})
//	...
//	c.Set(ctx, cache.Key("user", "42"), u, 5*time.Minute, "users")
//	v, ok := c.Get(ctx, cache.Key("user", "42"))
//	n := c.InvalidateByTag(ctx, "users")
//
// A process-wide instance configured from the environment is available
// through Default and the package-level wrappers.
package cache
