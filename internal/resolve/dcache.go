package resolve

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"lualint/internal/manifest"
)

// Increment when the payload format changes; stale entries are then
// treated as misses.
const diskCacheSchemaVersion uint16 = 1

// DiskCache persists resolved-import manifests across runs, keyed by
// content digest. Best-effort: every failure degrades to a miss.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

type diskPayload struct {
	Schema      uint16
	Path        string
	ContentHash Digest
	SelfExport  string
	Imports     []string
	Declared    []string
	Ignored     []string
}

// OpenDiskCache initializes the cache under the standard user cache
// location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app, "manifests")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, hex.EncodeToString(key[:])+".mp")
}

// Put serializes a manifest under its content digest, atomically.
func (c *DiskCache) Put(key Digest, path string, man *manifest.Manifest) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload := &diskPayload{
		Schema:      diskCacheSchemaVersion,
		Path:        path,
		ContentHash: key,
		SelfExport:  man.SelfExport,
		Imports:     sortedNames(man.Imports),
		Declared:    sortedNames(man.Declared),
		Ignored:     sortedNames(man.Ignored),
	}

	p := c.pathFor(key)
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a manifest back; ok is false on miss, schema mismatch, or
// digest mismatch.
func (c *DiskCache) Get(key Digest) (*manifest.Manifest, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload diskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != diskCacheSchemaVersion || payload.ContentHash != key {
		return nil, false, nil
	}

	man := manifest.New(payload.Path)
	man.SelfExport = payload.SelfExport
	for _, name := range payload.Imports {
		man.Imports.Add(name)
	}
	for _, name := range payload.Declared {
		man.Declared.Add(name)
	}
	for _, name := range payload.Ignored {
		man.Ignored.Add(name)
	}
	return man, true, nil
}

// DropAll invalidates the whole cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(c.dir)
}

func sortedNames(s manifest.Set) []string {
	names := s.Names()
	sort.Strings(names)
	return names
}
