// Package memstore implements the in-process cache tier: a bounded map with
// FIFO eviction, per-entry TTL and tag membership.
//
// Expiry is lazy. Get reports an expired entry as absent but leaves it in
// place, so it keeps holding its FIFO slot (and counts toward Len) until a
// sweep, Delete, Clear or capacity eviction reclaims it. An optional
// background sweeper removes expired entries periodically.
package memstore

import (
	"container/list"
	"slices"
	"sync"
	"time"
)

const (
	// DefaultMaxEntries bounds the store when Options.MaxEntries is zero.
	DefaultMaxEntries = 10_000
	// DefaultSweepInterval is the sweeper period when Options.SweepInterval
	// is zero.
	DefaultSweepInterval = time.Minute
)

// Options configures a Store. The zero value is usable.
type Options struct {
	// MaxEntries caps the number of entries (expired ones included).
	// <= 0 means DefaultMaxEntries.
	MaxEntries int
	// SweepInterval is how often the background sweeper reclaims expired
	// entries. Zero means DefaultSweepInterval; negative disables the
	// sweeper entirely.
	SweepInterval time.Duration
	// OnEvict, when set, is called with the key removed by a capacity
	// eviction. It runs outside the store lock and must not block.
	// Deliberate removals (Delete, InvalidateTag, Clear) do not fire it.
	OnEvict func(key string)
}

type entry struct {
	value     any
	expiresAt time.Time
	tags      []string
	elem      *list.Element // node in Store.order; Value is the key
}

// Store is a bounded in-memory key/value store. All methods are safe for
// concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   *list.List // insertion order, oldest at front
	max     int
	onEvict func(string)

	stopCh    chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New builds a Store and, unless disabled, starts its background sweeper.
// Call Close to stop the sweeper.
func New(opts Options) *Store {
	max := opts.MaxEntries
	if max <= 0 {
		max = DefaultMaxEntries
	}
	s := &Store{
		entries: make(map[string]*entry),
		order:   list.New(),
		max:     max,
		onEvict: opts.OnEvict,
		stopCh:  make(chan struct{}),
	}

	interval := opts.SweepInterval
	if interval == 0 {
		interval = DefaultSweepInterval
	}
	if interval > 0 {
		s.wg.Add(1)
		go s.janitor(interval)
	}
	return s
}

// Get returns the live value for key. Expired entries are reported as
// absent but not removed.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || !time.Now().Before(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the given ttl and tags. ttl <= 0 stores
// an entry that is already expired. Re-setting an existing key updates it
// in place and keeps its original FIFO position; a new key at capacity
// first evicts the oldest-inserted entry. The tags slice is copied.
func (s *Store) Set(key string, value any, ttl time.Duration, tags []string) {
	expiresAt := time.Now().Add(ttl)

	var evicted string
	var hasEvicted bool

	s.mu.Lock()
	if e, ok := s.entries[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		e.tags = append([]string(nil), tags...)
		s.mu.Unlock()
		return
	}
	if len(s.entries) >= s.max {
		if front := s.order.Front(); front != nil {
			oldest := front.Value.(string)
			s.order.Remove(front)
			delete(s.entries, oldest)
			evicted, hasEvicted = oldest, true
		}
	}
	s.entries[key] = &entry{
		value:     value,
		expiresAt: expiresAt,
		tags:      append([]string(nil), tags...),
		elem:      s.order.PushBack(key),
	}
	s.mu.Unlock()

	if hasEvicted && s.onEvict != nil {
		s.onEvict(evicted)
	}
}

// Delete removes key and reports whether an entry (live or expired) was
// present.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return false
	}
	s.order.Remove(e.elem)
	delete(s.entries, key)
	return true
}

// InvalidateTag removes every entry carrying tag and returns how many were
// removed. Entries without the tag are untouched.
func (s *Store) InvalidateTag(tag string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for key, e := range s.entries {
		if slices.Contains(e.tags, tag) {
			s.order.Remove(e.elem)
			delete(s.entries, key)
			n++
		}
	}
	return n
}

// Clear removes all entries.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*entry)
	s.order.Init()
}

// Len reports the number of stored entries, expired-but-unswept ones
// included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Cap reports the configured capacity.
func (s *Store) Cap() int { return s.max }

// Close stops the background sweeper and drops all entries. Safe to call
// more than once.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
	})
	s.Clear()
}

func (s *Store) janitor(interval time.Duration) {
	defer s.wg.Done()

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case now := <-t.C:
			s.sweep(now)
		}
	}
}

func (s *Store) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, e := range s.entries {
		if !now.Before(e.expiresAt) {
			s.order.Remove(e.elem)
			delete(s.entries, key)
		}
	}
}
