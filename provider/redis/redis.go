package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	pr "github.com/unkn0wn-root/tuplekv/provider"
)

var ErrNilClient = errors.New("redis provider: nil client")

// Redis stores values under their raw keys. With an IndexKey, every key is
// also a member (score 0) of that sorted set, so Scan can walk keys in
// bytewise order with ZRANGEBYLEX.
type Redis struct {
	rdb         goredis.UniversalClient
	index       string
	closeClient bool
}

var (
	_ pr.Provider = (*Redis)(nil)
	_ pr.Scanner  = (*Redis)(nil)
)

type Config struct {
	Client      goredis.UniversalClient
	IndexKey    string // sorted set used for Scan; "" disables Scan
	CloseClient bool   // set true only if this provider exclusively owns the client
}

var ErrNoIndex = errors.New("redis provider: scan needs IndexKey")

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Redis{rdb: cfg.Client, index: cfg.IndexKey, closeClient: cfg.CloseClient}, nil
}

func (p *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := p.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	return b, true, nil
}

func (p *Redis) Set(ctx context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = 0 // treat non-positive TTLs as "no expiry" per provider contract
	}
	if p.index == "" {
		if err := p.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
			return false, err
		}
		return true, nil
	}

	_, err := p.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, key, value, ttl)
		pipe.ZAdd(ctx, p.index, goredis.Z{Score: 0, Member: key})
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (p *Redis) Del(ctx context.Context, key string) error {
	if p.index == "" {
		return p.rdb.Del(ctx, key).Err()
	}
	_, err := p.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.ZRem(ctx, p.index, key)
		return nil
	})
	return err
}

// Scan reads member names from the index, then their values with MGET.
// Index members whose value has expired are pruned from the index.
func (p *Redis) Scan(ctx context.Context, begin, end string, limit int) ([]pr.Item, error) {
	if p.index == "" {
		return nil, ErrNoIndex
	}
	by := &goredis.ZRangeBy{Min: "[" + begin, Max: "(" + end}
	if limit > 0 {
		by.Count = int64(limit)
	}
	keys, err := p.rdb.ZRangeByLex(ctx, p.index, by).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	vals, err := p.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	out := make([]pr.Item, 0, len(keys))
	var stale []any
	for i, v := range vals {
		switch vv := v.(type) {
		case nil:
			stale = append(stale, keys[i])
		case string:
			out = append(out, pr.Item{Key: keys[i], Value: []byte(vv)})
		case []byte:
			out = append(out, pr.Item{Key: keys[i], Value: vv})
		}
	}
	if len(stale) > 0 {
		_ = p.rdb.ZRem(ctx, p.index, stale...).Err() // best-effort
	}
	return out, nil
}

// Close releases the underlying redis client only when this provider owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (p *Redis) Close(context.Context) error {
	if p.closeClient {
		if err := p.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
