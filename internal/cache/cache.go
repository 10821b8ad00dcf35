package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache stores raw API responses so repeated category walks and profile loads
// within a play session don't re-hit the wiki.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
}

// Key derives a stable cache key from a request URL
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "devine:v1:" + hex.EncodeToString(hash[:])
}

// Memory is an in-process TTL cache
type Memory struct {
	store *gocache.Cache
}

// NewMemory creates a memory cache with the given default TTL
func NewMemory(defaultTTL time.Duration) *Memory {
	return &Memory{
		store: gocache.New(defaultTTL, 10*time.Minute),
	}
}

func (m *Memory) Get(key string) ([]byte, bool) {
	if val, found := m.store.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

func (m *Memory) Set(key string, value []byte, ttl time.Duration) {
	m.store.Set(key, value, ttl)
}
