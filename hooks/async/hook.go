// usage:
//
// import (
//
//	"log/slog"
//
//	cache "github.com/NextSpark-js/nextspark-sub008"
//	asynchook "github.com/NextSpark-js/nextspark-sub008/hooks/async"
//	"github.com/NextSpark-js/nextspark-sub008/sloghooks"
//
// )
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    HitEvery:      100, // sample logs: ~every 100th hit
//	    SelfHealEvery: 10,
//	})
//
// hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
// defer hooks.Close()
//
//	c, _ := cache.New(cache.Options{
//	    Namespace: "app:prod",
//	    Remote:    remote,
//	    Hooks:     hooks, // or `raw` if you don’t want async
//	})
package asynchook

import (
	"sync"

	cache "github.com/NextSpark-js/nextspark-sub008"
)

type Hooks struct {
	inner cache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ cache.Hooks = (*Hooks)(nil)

func New(inner cache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers.
func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) Hit(tier string)                  { h.try(func() { h.inner.Hit(tier) }) }
func (h *Hooks) Miss()                            { h.try(func() { h.inner.Miss() }) }
func (h *Hooks) RemoteError(op string, err error) { h.try(func() { h.inner.RemoteError(op, err) }) }
func (h *Hooks) SelfHeal(k, r string)             { h.try(func() { h.inner.SelfHeal(k, r) }) }
func (h *Hooks) NearExpirySkip(k string)          { h.try(func() { h.inner.NearExpirySkip(k) }) }
func (h *Hooks) Evicted(k string)                 { h.try(func() { h.inner.Evicted(k) }) }
func (h *Hooks) TagInvalidated(tag string, localN, remoteN int) {
	h.try(func() { h.inner.TagInvalidated(tag, localN, remoteN) })
}
