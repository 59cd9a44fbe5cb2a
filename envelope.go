package cache

import "time"

// envelope is the wire form of one remote entry. Other runtimes sharing
// the store write the same shape, so the fields are fixed: Value is the
// cached payload, Tags its invalidation groups, TTL the absolute expiry as
// Unix milliseconds.
//
// TTL feeds the near-expiry check on read; actual remote eviction is the
// store's own per-key expiry set alongside the payload.
type envelope struct {
	Value any      `json:"value" msgpack:"value" cbor:"value"`
	Tags  []string `json:"tags" msgpack:"tags" cbor:"tags"`
	TTL   int64    `json:"ttl" msgpack:"ttl" cbor:"ttl"`
}

func newEnvelope(value any, tags []string, expiresAt time.Time) envelope {
	if tags == nil {
		tags = []string{} // encode as an empty list, not null
	}
	return envelope{Value: value, Tags: tags, TTL: expiresAt.UnixMilli()}
}

// remaining is the lifetime left before the recorded expiry.
func (e envelope) remaining(now time.Time) time.Duration {
	return time.UnixMilli(e.TTL).Sub(now)
}
