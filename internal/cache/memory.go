package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory holds lookup results for the life of the process. An entry is
// dropped when it is read after its TTL; nothing sweeps in the background.
type Memory struct {
	items *gocache.Cache
}

// NewMemory creates an empty cache whose entries live for ttl unless Set
// is given another TTL
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{items: gocache.New(ttl, 0)}
}

func (m *Memory) Get(key string) ([]byte, bool) {
	v, ok := m.items.Get(key)
	if !ok {
		return nil, false
	}
	b, ok := v.([]byte)
	return b, ok
}

// Set stores value under key. A zero ttl (gocache.DefaultExpiration) uses
// the TTL given to NewMemory.
func (m *Memory) Set(key string, value []byte, ttl time.Duration) error {
	m.items.Set(key, value, ttl)
	return nil
}

func (m *Memory) Delete(key string) error {
	m.items.Delete(key)
	return nil
}

// Clear forgets every cached lookup
func (m *Memory) Clear() error {
	m.items.Flush()
	return nil
}
