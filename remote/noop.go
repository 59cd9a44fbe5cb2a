package remote

import (
	"context"
	"time"
)

// Noop is the client used when no remote store is configured: every read
// misses, writes vanish, Ping reports ErrUnavailable. It keeps callers on a
// single code path in local-only deployments.
type Noop struct{}

var _ Client = Noop{}

func (Noop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (Noop) Del(context.Context, string) (bool, error) { return false, nil }

func (Noop) SAdd(context.Context, string, ...string) error { return nil }

func (Noop) SMembers(context.Context, string) ([]string, error) { return nil, nil }

func (Noop) SRem(context.Context, string, ...string) error { return nil }

func (Noop) Scan(context.Context, uint64, string, int64) ([]string, uint64, error) {
	return nil, 0, nil
}

func (Noop) Pipeline() Pipeline { return noopPipeline{} }

func (Noop) Ping(context.Context) error { return ErrUnavailable }

func (Noop) Close(context.Context) error { return nil }

type noopPipeline struct{}

func (noopPipeline) Del(string)                 {}
func (noopPipeline) SRem(string, string)        {}
func (noopPipeline) Exec(context.Context) error { return nil }
