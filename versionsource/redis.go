package versionsource

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Redis shares the commit version across processes and survives restarts.
type Redis struct {
	rdb         redis.UniversalClient
	ns          string // logical namespace; should match Options.Namespace
	closeClient bool
}

var _ Source = (*Redis)(nil)

// NewRedis creates a Redis-backed source. The client is closed by Close only
// when closeClient is true.
func NewRedis(client redis.UniversalClient, namespace string, closeClient bool) *Redis {
	return &Redis{rdb: client, ns: namespace, closeClient: closeClient}
}

func (s *Redis) key() string { return "ver:" + s.ns }

// Next atomically increments the counter with INCR.
func (s *Redis) Next(ctx context.Context) (uint64, error) {
	v, err := s.rdb.Incr(ctx, s.key()).Result()
	if err != nil {
		return 0, err
	}
	return uint64(v), nil
}

// Current returns the counter; a missing key is version 0.
func (s *Redis) Current(ctx context.Context) (uint64, error) {
	res, err := s.rdb.Get(ctx, s.key()).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	u, err := strconv.ParseUint(res, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("redis version parse: %w", err)
	}
	return u, nil
}

func (s *Redis) Close(context.Context) error {
	if s.closeClient {
		return s.rdb.Close()
	}
	return nil
}
