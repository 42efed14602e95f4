package cachefakes

import (
	"context"
	"sync"
)

// FakeCache is a thread-safe in-memory implementation of cache.Cache
type FakeCache struct {
	mu     sync.RWMutex
	sets   map[string]map[string]int64
	values map[string]string
}

// NewFakeCache creates a new in-memory cache
func NewFakeCache() *FakeCache {
	return &FakeCache{
		sets:   make(map[string]map[string]int64),
		values: make(map[string]string),
	}
}

func (c *FakeCache) AddScored(_ context.Context, set, member string, score int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.sets[set]; !ok {
		c.sets[set] = make(map[string]int64)
	}
	c.sets[set][member] = score
	return nil
}

func (c *FakeCache) ScoreOf(_ context.Context, set, member string) (int64, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	members, ok := c.sets[set]
	if !ok {
		return 0, false, nil
	}
	score, ok := members[member]
	return score, ok, nil
}

func (c *FakeCache) Remove(_ context.Context, set, member string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if members, ok := c.sets[set]; ok {
		delete(members, member)
	}
	return nil
}

func (c *FakeCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.values[key]
	return value, ok, nil
}

func (c *FakeCache) Set(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values[key] = value
	return nil
}

func (c *FakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.values, key)
	return nil
}
