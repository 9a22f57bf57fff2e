package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// LookupKey generates the cache key for a term lookup. Terms are normalized so
// "Drip " and "drip" share an entry.
func LookupKey(provider, term string) string {
	norm := strings.ToLower(strings.TrimSpace(term))
	hash := sha256.Sum256([]byte(provider + "\x00" + norm))
	return "slangwatch:lookup:v1:" + hex.EncodeToString(hash[:])
}
