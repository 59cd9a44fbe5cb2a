package cache

import (
	"fmt"
	"strings"
	"time"

	"github.com/NextSpark-js/nextspark-sub008/codec"
	"github.com/NextSpark-js/nextspark-sub008/memstore"
	"github.com/NextSpark-js/nextspark-sub008/remote"
)

const (
	// DefaultNamespace prefixes remote keys when Options.Namespace is empty.
	DefaultNamespace = "cache"
	// DefaultTTL applies to Set calls with ttl <= 0 when Options.DefaultTTL
	// is zero.
	DefaultTTL = 5 * time.Minute
)

// Options tune the facade. The zero value is usable: a local-only cache
// under the "cache" namespace with JSON envelopes.
type Options struct {
	// Namespace prefixes every remote key ("<ns>:<key>") and tag index
	// ("<ns>:tag:<tag>"). Clear scans "<ns>:*", so the namespace must not
	// contain glob metacharacters (the backslash escape included) or
	// whitespace. Empty means DefaultNamespace.
	Namespace string

	// Remote is the distributed tier. nil means none is configured and the
	// cache runs on the local tier alone.
	Remote remote.Client

	// CloseRemote releases Remote on Close. Set it when the facade is the
	// sole owner of the client; OptionsFromEnv does this for clients it
	// builds itself.
	CloseRemote bool

	// Codec serializes envelopes for the remote tier. nil means codec.JSON,
	// the shape other runtimes sharing the store expect.
	Codec codec.Codec

	Logger Logger // if nil, NopLogger is used
	Hooks  Hooks  // if nil, NopHooks is used

	DefaultTTL    time.Duration // Set with ttl <= 0; 0 => 5m
	MaxEntries    int           // local capacity; 0 => memstore.DefaultMaxEntries
	SweepInterval time.Duration // local expiry sweep; 0 => memstore default, < 0 disables
}

// New builds a Cache. The only construction failure is an unusable
// namespace; every other option has a default.
func New(opts Options) (*Cache, error) {
	ns := coalesce(opts.Namespace, DefaultNamespace)
	if strings.ContainsAny(ns, "*?[]\\ \t\r\n") {
		return nil, fmt.Errorf("cache: namespace %q contains glob or whitespace characters", ns)
	}

	c := &Cache{
		ns:          ns,
		remote:      opts.Remote,
		codec:       opts.Codec,
		closeRemote: opts.CloseRemote,
	}
	if c.remote == nil {
		c.remote = remote.Noop{}
	}
	if c.codec == nil {
		c.codec = codec.JSON{}
	}

	// defaults
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	c.defaultTTL = coalesce[time.Duration](opts.DefaultTTL, DefaultTTL)

	c.mem = memstore.New(memstore.Options{
		MaxEntries:    opts.MaxEntries,
		SweepInterval: opts.SweepInterval,
		OnEvict:       func(key string) { c.hooks.Evicted(key) },
	})
	return c, nil
}
