package cache

// Tier labels for Hooks.Hit.
const (
	TierLocal  = "local"
	TierRemote = "remote"
)

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths; wrap with hooks/async when the sink
// can block.
type Hooks interface {
	// A read was served. tier ∈ {TierLocal, TierRemote}.
	Hit(tier string)

	// A read found nothing in either tier (remote failures count as misses).
	Miss()

	// A remote operation failed and the cache continued without it.
	// op ∈ {"get", "set", "del", "sadd", "smembers", "scan", "pipeline", "close"}
	RemoteError(op string, err error)

	// A remote entry could not be decoded and was deleted on read.
	// reason ∈ {"decode", "envelope"}
	SelfHeal(storageKey, reason string)

	// A remote hit was discarded because it was about to expire.
	NearExpirySkip(key string)

	// The local tier evicted key to make room (capacity, not expiry).
	Evicted(key string)

	// A tag invalidation removed localN local entries and deleted remoteN
	// remotely indexed keys (0 when the batched delete failed).
	TagInvalidated(tag string, localN, remoteN int)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) Hit(string)                      {}
func (NopHooks) Miss()                           {}
func (NopHooks) RemoteError(string, error)       {}
func (NopHooks) SelfHeal(string, string)         {}
func (NopHooks) NearExpirySkip(string)           {}
func (NopHooks) Evicted(string)                  {}
func (NopHooks) TagInvalidated(string, int, int) {}
