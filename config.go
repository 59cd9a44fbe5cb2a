package cache

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/NextSpark-js/nextspark-sub008/remote"
)

// Environment keys honored by OptionsFromEnv.
const (
	EnvRedisURL      = "REDIS_URL"
	EnvNamespace     = "CACHE_NAMESPACE"
	EnvMaxEntries    = "CACHE_MAX_ENTRIES"
	EnvDefaultTTL    = "CACHE_DEFAULT_TTL"
	EnvOpTimeout     = "CACHE_OP_TIMEOUT"
	EnvSweepInterval = "CACHE_SWEEP_INTERVAL"
)

// OptionsFromEnv assembles Options from the process environment. Unset
// keys keep their zero value so New applies its defaults. Without
// REDIS_URL the result is a local-only cache; a REDIS_URL that is set but
// unusable is an error, so deployments do not silently run without their
// remote tier.
//
// Durations use time.ParseDuration syntax ("500ms", "30s", "5m").
func OptionsFromEnv() (Options, error) {
	opts := Options{
		Namespace: os.Getenv(EnvNamespace),
	}

	var err error
	if opts.MaxEntries, err = envInt(EnvMaxEntries); err != nil {
		return Options{}, err
	}
	if opts.DefaultTTL, err = envDuration(EnvDefaultTTL); err != nil {
		return Options{}, err
	}
	if opts.SweepInterval, err = envDuration(EnvSweepInterval); err != nil {
		return Options{}, err
	}

	url := os.Getenv(EnvRedisURL)
	if url == "" {
		return opts, nil
	}
	opTimeout, err := envDuration(EnvOpTimeout)
	if err != nil {
		return Options{}, err
	}
	client, err := remote.NewRedis(remote.Config{URL: url, OpTimeout: opTimeout})
	if err != nil {
		return Options{}, err
	}
	opts.Remote = client
	opts.CloseRemote = true
	return opts, nil
}

func envInt(key string) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("cache: %s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("cache: %s: %w", key, err)
	}
	return d, nil
}
