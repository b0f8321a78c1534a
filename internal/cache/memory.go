package cache

import (
	gocache "github.com/patrickmn/go-cache"
)

// Memory is a Cache that lives only as long as the process.
type Memory struct {
	c *gocache.Cache
}

// NewMemory creates an empty Memory cache. Entries never expire.
func NewMemory() *Memory {
	return &Memory{c: gocache.New(gocache.NoExpiration, 0)}
}

func (m *Memory) Get(key string) ([]byte, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	blob := v.([]byte)
	return append([]byte{}, blob...), true, nil
}

func (m *Memory) Put(key string, blob []byte) error {
	m.c.Set(key, append([]byte{}, blob...), gocache.NoExpiration)
	return nil
}
