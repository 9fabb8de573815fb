package redis

import (
	"context"
	"errors"
	"os"
	"testing"

	goredis "github.com/redis/go-redis/v9"
)

// liveClient connects to TUPLEKV_REDIS_ADDR or skips.
func liveClient(t *testing.T) goredis.UniversalClient {
	t.Helper()
	addr := os.Getenv("TUPLEKV_REDIS_ADDR")
	if addr == "" {
		t.Skip("TUPLEKV_REDIS_ADDR not set")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unreachable: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestNewRejectsNilClient(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ErrNilClient) {
		t.Fatalf("got %v, want ErrNilClient", err)
	}
}

func TestScanWithoutIndex(t *testing.T) {
	p, err := New(Config{Client: goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"})})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := p.Scan(context.Background(), "a", "b", 0); !errors.Is(err, ErrNoIndex) {
		t.Fatalf("got %v, want ErrNoIndex", err)
	}
}

func TestScanOrderLive(t *testing.T) {
	ctx := context.Background()
	rdb := liveClient(t)
	index := "tuplekv:test:index"
	p, err := New(Config{Client: rdb, IndexKey: index})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	keys := []string{"\x02t\x00\x15\x02", "\x02t\x00\x15\x01", "\x02t\x00\x13\xfe", "\x02u\x00"}
	t.Cleanup(func() {
		for _, k := range keys {
			_ = p.Del(ctx, k)
		}
		_ = rdb.Del(ctx, index).Err()
	})
	for _, k := range keys {
		if _, err := p.Set(ctx, k, []byte(k), 1, 0); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}

	items, err := p.Scan(ctx, "\x02t\x00\x00", "\x02t\x00\xff", 0)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	want := []string{"\x02t\x00\x13\xfe", "\x02t\x00\x15\x01", "\x02t\x00\x15\x02"}
	if len(items) != len(want) {
		t.Fatalf("Scan len = %d, want %d", len(items), len(want))
	}
	for i, it := range items {
		if it.Key != want[i] || string(it.Value) != want[i] {
			t.Fatalf("item %d = %x", i, it.Key)
		}
	}

	// an index entry whose value expired is pruned
	_ = rdb.Del(ctx, want[0]).Err()
	items, err = p.Scan(ctx, "\x02t\x00\x00", "\x02t\x00\xff", 1)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("stale member should be dropped, got %d items", len(items))
	}
}
