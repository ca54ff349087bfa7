package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Store is a TTL cache for serialized fetch results. Get returns false
// for missing or expired entries; Set failures are silent since the
// cache is best-effort.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration)
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Memory is an in-process LRU Store with per-entry expiry.
type Memory struct {
	lru *lru.Cache[string, *entry]
}

func NewMemory(size int) (*Memory, error) {
	l, err := lru.New[string, *entry](size)
	if err != nil {
		return nil, err
	}
	return &Memory{lru: l}, nil
}

func (c *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	e, ok := c.lru.Get(key)
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.data, true
}

func (c *Memory) Set(_ context.Context, key string, val []byte, ttl time.Duration) {
	c.lru.Add(key, &entry{
		data:      val,
		expiresAt: time.Now().Add(ttl),
	})
}
