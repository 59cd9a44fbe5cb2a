// Package promhooks exports cache events as Prometheus counters.
//
// Register one Hooks per registry and namespace; a second registration
// with the same pair panics the way promauto does.
package promhooks

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	cache "github.com/NextSpark-js/nextspark-sub008"
)

type Options struct {
	// Registerer receives the collectors. Defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
	// Namespace becomes a const label so several caches can share one registry.
	Namespace string
}

// Hooks counts cache events. Keys and tags never become label values.
type Hooks struct {
	hits             *prometheus.CounterVec
	misses           prometheus.Counter
	remoteErrors     *prometheus.CounterVec
	selfHeals        *prometheus.CounterVec
	nearExpirySkips  prometheus.Counter
	evictions        prometheus.Counter
	tagInvalidations prometheus.Counter
	tagEntries       *prometheus.CounterVec
}

var _ cache.Hooks = (*Hooks)(nil)

func New(opts Options) *Hooks {
	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	labels := prometheus.Labels{}
	if opts.Namespace != "" {
		labels["namespace"] = opts.Namespace
	}

	f := promauto.With(reg)
	return &Hooks{
		hits: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "cache_hits_total",
			Help:        "Total number of cache hits by tier",
			ConstLabels: labels,
		}, []string{"tier"}),
		misses: f.NewCounter(prometheus.CounterOpts{
			Name:        "cache_misses_total",
			Help:        "Total number of cache misses",
			ConstLabels: labels,
		}),
		remoteErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "cache_remote_errors_total",
			Help:        "Total number of remote store errors by operation",
			ConstLabels: labels,
		}, []string{"op"}),
		selfHeals: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "cache_self_heals_total",
			Help:        "Total number of corrupt entries deleted on read",
			ConstLabels: labels,
		}, []string{"reason"}),
		nearExpirySkips: f.NewCounter(prometheus.CounterOpts{
			Name:        "cache_near_expiry_skips_total",
			Help:        "Total number of remote hits skipped for imminent expiry",
			ConstLabels: labels,
		}),
		evictions: f.NewCounter(prometheus.CounterOpts{
			Name:        "cache_evictions_total",
			Help:        "Total number of local entries evicted at capacity",
			ConstLabels: labels,
		}),
		tagInvalidations: f.NewCounter(prometheus.CounterOpts{
			Name:        "cache_tag_invalidations_total",
			Help:        "Total number of tag invalidation calls",
			ConstLabels: labels,
		}),
		tagEntries: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "cache_tag_invalidated_entries_total",
			Help:        "Total number of entries removed by tag invalidation by tier",
			ConstLabels: labels,
		}, []string{"tier"}),
	}
}

func (h *Hooks) Hit(tier string)                  { h.hits.WithLabelValues(tier).Inc() }
func (h *Hooks) Miss()                            { h.misses.Inc() }
func (h *Hooks) RemoteError(op string, _ error)   { h.remoteErrors.WithLabelValues(op).Inc() }
func (h *Hooks) SelfHeal(_ string, reason string) { h.selfHeals.WithLabelValues(reason).Inc() }
func (h *Hooks) NearExpirySkip(string)            { h.nearExpirySkips.Inc() }
func (h *Hooks) Evicted(string)                   { h.evictions.Inc() }

func (h *Hooks) TagInvalidated(_ string, localN, remoteN int) {
	h.tagInvalidations.Inc()
	h.tagEntries.WithLabelValues(cache.TierLocal).Add(float64(localN))
	h.tagEntries.WithLabelValues(cache.TierRemote).Add(float64(remoteN))
}
