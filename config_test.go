package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func clearCacheEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvRedisURL, EnvNamespace, EnvMaxEntries,
		EnvDefaultTTL, EnvOpTimeout, EnvSweepInterval,
	} {
		t.Setenv(key, "")
	}
}

func TestOptionsFromEnvEmpty(t *testing.T) {
	clearCacheEnv(t)

	opts, err := OptionsFromEnv()
	if err != nil {
		t.Fatalf("OptionsFromEnv: %v", err)
	}
	if opts.Remote != nil || opts.Namespace != "" || opts.MaxEntries != 0 || opts.DefaultTTL != 0 {
		t.Fatalf("opts = %+v; want zero values", opts)
	}
}

func TestOptionsFromEnvValues(t *testing.T) {
	clearCacheEnv(t)
	t.Setenv(EnvNamespace, "orders")
	t.Setenv(EnvMaxEntries, "5000")
	t.Setenv(EnvDefaultTTL, "30s")
	t.Setenv(EnvSweepInterval, "2m")

	opts, err := OptionsFromEnv()
	if err != nil {
		t.Fatalf("OptionsFromEnv: %v", err)
	}
	if opts.Namespace != "orders" {
		t.Fatalf("Namespace = %q; want orders", opts.Namespace)
	}
	if opts.MaxEntries != 5000 {
		t.Fatalf("MaxEntries = %d; want 5000", opts.MaxEntries)
	}
	if opts.DefaultTTL != 30*time.Second {
		t.Fatalf("DefaultTTL = %v; want 30s", opts.DefaultTTL)
	}
	if opts.SweepInterval != 2*time.Minute {
		t.Fatalf("SweepInterval = %v; want 2m", opts.SweepInterval)
	}
	if opts.Remote != nil {
		t.Fatal("Remote built without REDIS_URL")
	}
}

func TestOptionsFromEnvBuildsRemote(t *testing.T) {
	mr := miniredis.RunT(t)
	clearCacheEnv(t)
	t.Setenv(EnvRedisURL, "redis://"+mr.Addr())
	t.Setenv(EnvOpTimeout, "1s")

	opts, err := OptionsFromEnv()
	if err != nil {
		t.Fatalf("OptionsFromEnv: %v", err)
	}
	if opts.Remote == nil || !opts.CloseRemote {
		t.Fatalf("opts = %+v; want owned remote client", opts)
	}
	t.Cleanup(func() { _ = opts.Remote.Close(context.Background()) })

	if err := opts.Remote.Ping(context.Background()); err != nil {
		t.Fatalf("Ping through env-built client: %v", err)
	}
}

func TestOptionsFromEnvRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		EnvRedisURL:   "://nope",
		EnvMaxEntries: "lots",
		EnvDefaultTTL: "soon",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			clearCacheEnv(t)
			t.Setenv(key, val)
			if _, err := OptionsFromEnv(); err == nil {
				t.Fatalf("OptionsFromEnv accepted %s=%q", key, val)
			}
		})
	}

	// A bad op timeout only matters alongside a remote URL.
	mr := miniredis.RunT(t)
	clearCacheEnv(t)
	t.Setenv(EnvRedisURL, "redis://"+mr.Addr())
	t.Setenv(EnvOpTimeout, "whenever")
	if _, err := OptionsFromEnv(); err == nil {
		t.Fatal("OptionsFromEnv accepted a malformed op timeout")
	}
}
