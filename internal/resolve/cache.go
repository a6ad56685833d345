package resolve

import (
	"crypto/sha256"
	"sync"

	"lualint/internal/manifest"
)

// Digest is a SHA-256 content hash; manifests are deterministic for a
// given file content, so it keys both caches.
type Digest [sha256.Size]byte

// HashContent digests raw file content.
func HashContent(content []byte) Digest {
	return sha256.Sum256(content)
}

type cached struct {
	content Digest
	man     *manifest.Manifest
}

// Cache is the per-run in-memory manifest cache, keyed by resolved file
// path. Safe for concurrent use by parallel file workers.
type Cache struct {
	mu     sync.RWMutex
	byPath map[string]cached
}

// NewCache creates a Cache with a capacity hint.
func NewCache(capHint int) *Cache {
	return &Cache{byPath: make(map[string]cached, capHint)}
}

// Get returns the cached manifest for path when the content digest
// still matches.
func (c *Cache) Get(path string, content Digest) (*manifest.Manifest, bool) {
	c.mu.RLock()
	rec, ok := c.byPath[path]
	c.mu.RUnlock()
	if !ok || rec.content != content {
		return nil, false
	}
	return rec.man, true
}

// Put inserts or refreshes the manifest for path.
func (c *Cache) Put(path string, content Digest, man *manifest.Manifest) {
	c.mu.Lock()
	c.byPath[path] = cached{content: content, man: man}
	c.mu.Unlock()
}
