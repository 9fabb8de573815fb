// Package memory is an ordered in-process provider. Keys are kept sorted so
// it can serve range scans; it is the reference store for tests and
// single-process use.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	pr "github.com/unkn0wn-root/tuplekv/provider"
)

type entry struct {
	v   []byte
	exp time.Time // zero => no TTL
}

// Provider is safe for concurrent use.
type Provider struct {
	mu   sync.RWMutex
	m    map[string]entry
	keys []string // sorted
	now  func() time.Time
}

var (
	_ pr.Provider = (*Provider)(nil)
	_ pr.Scanner  = (*Provider)(nil)
)

func New() *Provider {
	return &Provider{m: make(map[string]entry), now: time.Now}
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	p.mu.RLock()
	e, ok := p.m[key]
	p.mu.RUnlock()
	if !ok || p.expired(e) {
		return nil, false, nil
	}
	return e.v, true, nil
}

func (p *Provider) Set(_ context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	var exp time.Time
	if ttl > 0 {
		exp = p.now().Add(ttl)
	}
	p.mu.Lock()
	if _, ok := p.m[key]; !ok {
		i := sort.SearchStrings(p.keys, key)
		p.keys = append(p.keys, "")
		copy(p.keys[i+1:], p.keys[i:])
		p.keys[i] = key
	}
	p.m[key] = entry{v: value, exp: exp}
	p.mu.Unlock()
	return true, nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	p.mu.Lock()
	p.del(key)
	p.mu.Unlock()
	return nil
}

// Scan walks the sorted key list; expired entries are skipped and dropped.
func (p *Provider) Scan(_ context.Context, begin, end string, limit int) ([]pr.Item, error) {
	var (
		out   []pr.Item
		stale []string
	)
	p.mu.RLock()
	for i := sort.SearchStrings(p.keys, begin); i < len(p.keys); i++ {
		k := p.keys[i]
		if k >= end {
			break
		}
		e := p.m[k]
		if p.expired(e) {
			stale = append(stale, k)
			continue
		}
		out = append(out, pr.Item{Key: k, Value: e.v})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	p.mu.RUnlock()

	if len(stale) > 0 {
		p.mu.Lock()
		for _, k := range stale {
			if e, ok := p.m[k]; ok && p.expired(e) {
				p.del(k)
			}
		}
		p.mu.Unlock()
	}
	return out, nil
}

// Len returns the number of stored keys, expired ones included.
func (p *Provider) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.keys)
}

func (p *Provider) Close(_ context.Context) error { return nil }

func (p *Provider) expired(e entry) bool {
	return !e.exp.IsZero() && p.now().After(e.exp)
}

// del must be called with mu held.
func (p *Provider) del(key string) {
	if _, ok := p.m[key]; !ok {
		return
	}
	delete(p.m, key)
	i := sort.SearchStrings(p.keys, key)
	if i < len(p.keys) && p.keys[i] == key {
		p.keys = append(p.keys[:i], p.keys[i+1:]...)
	}
}
