package resolve

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"lualint/internal/listing"
	"lualint/internal/luac"
	"lualint/internal/manifest"
)

// ErrNotFound means no search-path template yielded an existing file.
var ErrNotFound = errors.New("module not found in search path")

// Resolver maps imported module names to their manifests. Resolution is
// explicitly non-recursive: an import target's own imports are never
// followed.
type Resolver struct {
	search SearchPath
	disasm luac.Disassembler
	cache  *Cache
	disk   *DiskCache
}

// NewResolver creates a resolver with a fresh per-run cache.
func NewResolver(search SearchPath, disasm luac.Disassembler) *Resolver {
	return &Resolver{
		search: search,
		disasm: disasm,
		cache:  NewCache(16),
	}
}

// WithDiskCache attaches a cross-run disk cache. Optional.
func (r *Resolver) WithDiskCache(disk *DiskCache) *Resolver {
	r.disk = disk
	return r
}

// Resolve finds module in the search path and returns its manifest.
// ErrNotFound when no template matched; a *luac.CompileError (wrapped)
// when the target exists but its listing could not be produced. Both
// are per-import conditions, never fatal.
func (r *Resolver) Resolve(ctx context.Context, module string) (*manifest.Manifest, error) {
	path, ok := r.search.Find(module)
	if !ok {
		return nil, fmt.Errorf("%q: %w", module, ErrNotFound)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%q: reading %s: %w", module, path, err)
	}
	digest := HashContent(content)

	if man, ok := r.cache.Get(path, digest); ok {
		return man, nil
	}
	if r.disk != nil {
		// Disk failures degrade to a miss.
		if man, ok, err := r.disk.Get(digest); err == nil && ok {
			r.cache.Put(path, digest, man)
			return man, nil
		}
	}

	text, err := r.disasm.Disassemble(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", module, err)
	}
	records, err := listing.ScanAll(bytes.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("%q: scanning listing of %s: %w", module, path, err)
	}
	man, _ := manifest.Collect(path, records)

	r.cache.Put(path, digest, man)
	if r.disk != nil {
		_ = r.disk.Put(digest, path, man)
	}
	return man, nil
}
