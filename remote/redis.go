package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// DefaultOpTimeout bounds each operation when Config.OpTimeout is zero.
const DefaultOpTimeout = 5 * time.Second

// Config selects the connection for a Redis client. Client, URL and Addr
// are consulted in that order; exactly one must be set.
type Config struct {
	// Client, when non-nil, is used as-is. The caller keeps ownership of it
	// unless CloseClient is true.
	Client goredis.UniversalClient
	// URL is a redis:// or rediss:// connection string (redis.ParseURL).
	URL string
	// Addr is a host:port pair, combined with Password, DB and PoolSize.
	Addr     string
	Password string
	DB       int
	PoolSize int
	// OpTimeout bounds every operation issued through this client,
	// pipeline flushes included. Zero means DefaultOpTimeout.
	OpTimeout time.Duration
	// CloseClient releases an injected Client on Close. Clients this
	// package constructs from URL or Addr are always owned and closed.
	CloseClient bool
}

// Redis implements Client on go-redis. Construction does not dial: a store
// that is down at start-up becomes usable once it comes back, so callers
// probe availability with Ping instead of failing at build time.
type Redis struct {
	rdb         goredis.UniversalClient
	opTimeout   time.Duration
	closeClient bool
}

var _ Client = (*Redis)(nil)

func NewRedis(cfg Config) (*Redis, error) {
	r := &Redis{
		opTimeout:   cfg.OpTimeout,
		closeClient: cfg.CloseClient,
	}
	if r.opTimeout <= 0 {
		r.opTimeout = DefaultOpTimeout
	}

	switch {
	case cfg.Client != nil:
		r.rdb = cfg.Client
	case cfg.URL != "":
		opt, err := goredis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("remote: parse redis url: %w", err)
		}
		if cfg.PoolSize > 0 {
			opt.PoolSize = cfg.PoolSize
		}
		r.rdb = goredis.NewClient(opt)
		r.closeClient = true
	case cfg.Addr != "":
		r.rdb = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		})
		r.closeClient = true
	default:
		return nil, errors.New("remote: no redis client, url or addr configured")
	}
	return r, nil
}

func (r *Redis) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.opTimeout)
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	qctx, cancel := r.opCtx(ctx)
	defer cancel()

	b, err := r.rdb.Get(qctx, key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return b, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 0 // non-positive TTLs mean "no expiry" per client contract
	}
	qctx, cancel := r.opCtx(ctx)
	defer cancel()

	if err := r.rdb.Set(qctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *Redis) Del(ctx context.Context, key string) (bool, error) {
	qctx, cancel := r.opCtx(ctx)
	defer cancel()

	n, err := r.rdb.Del(qctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis del: %w", err)
	}
	return n > 0, nil
}

func (r *Redis) SAdd(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	qctx, cancel := r.opCtx(ctx)
	defer cancel()

	if err := r.rdb.SAdd(qctx, key, setArgs(members)...).Err(); err != nil {
		return fmt.Errorf("redis sadd: %w", err)
	}
	return nil
}

func (r *Redis) SMembers(ctx context.Context, key string) ([]string, error) {
	qctx, cancel := r.opCtx(ctx)
	defer cancel()

	members, err := r.rdb.SMembers(qctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers: %w", err)
	}
	return members, nil
}

func (r *Redis) SRem(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	qctx, cancel := r.opCtx(ctx)
	defer cancel()

	if err := r.rdb.SRem(qctx, key, setArgs(members)...).Err(); err != nil {
		return fmt.Errorf("redis srem: %w", err)
	}
	return nil
}

func (r *Redis) Scan(ctx context.Context, cursor uint64, pattern string, count int64) ([]string, uint64, error) {
	qctx, cancel := r.opCtx(ctx)
	defer cancel()

	keys, next, err := r.rdb.Scan(qctx, cursor, pattern, count).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("redis scan: %w", err)
	}
	return keys, next, nil
}

func (r *Redis) Pipeline() Pipeline {
	return &redisPipeline{pipe: r.rdb.Pipeline(), opTimeout: r.opTimeout}
}

func (r *Redis) Ping(ctx context.Context) error {
	qctx, cancel := r.opCtx(ctx)
	defer cancel()

	if err := r.rdb.Ping(qctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close releases the underlying redis client only when this adapter owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (r *Redis) Close(context.Context) error {
	if r.closeClient {
		if err := r.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}

type redisPipeline struct {
	pipe      goredis.Pipeliner
	opTimeout time.Duration
}

func (p *redisPipeline) Del(key string) {
	p.pipe.Del(context.Background(), key)
}

func (p *redisPipeline) SRem(key, member string) {
	p.pipe.SRem(context.Background(), key, member)
}

// Exec flushes the queued commands in one round trip. Contexts attached at
// queue time carry no I/O; the ctx given here governs the flush.
func (p *redisPipeline) Exec(ctx context.Context) error {
	qctx, cancel := context.WithTimeout(ctx, p.opTimeout)
	defer cancel()

	if _, err := p.pipe.Exec(qctx); err != nil {
		return fmt.Errorf("redis pipeline: %w", err)
	}
	return nil
}

func setArgs(members []string) []any {
	out := make([]any, len(members))
	for i, m := range members {
		out[i] = m
	}
	return out
}
