// Package manifest reconstructs the symbolic facts of one Lua file from
// its instruction records: which modules it requires, which globals it
// declares or ignores, and every global reference it makes.
package manifest

import (
	"path/filepath"
	"strings"
)

// Marker call names recognized by the collector. A GETGLOBAL of one of
// these followed by constant loads whitelists the constants.
const (
	// MarkerImport records a module dependency for search-path
	// resolution. Consumes exactly one constant.
	MarkerImport = "require"
	// MarkerDeclare whitelists a symbol as an intentional export.
	// Consumes exactly one constant.
	MarkerDeclare = "declare"
	// MarkerIgnore whitelists one or more expected-possibly-absent read
	// targets. Consumes every immediately following constant.
	MarkerIgnore = "lint_ignore"
)

// Set is a plain string set.
type Set map[string]struct{}

// Add inserts a name.
func (s Set) Add(name string) { s[name] = struct{}{} }

// Has reports membership.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the members as an unsorted slice.
func (s Set) Names() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	return out
}

// Manifest holds the per-file marker sets. One is built for the file
// under analysis and one for every resolved import target.
type Manifest struct {
	// Imports are module names recorded by the import marker.
	Imports Set
	// Declared are symbols whitelisted by the declare marker. Always
	// seeded with the declare marker's own name so the declaration
	// mechanism never warns on itself.
	Declared Set
	// Ignored are symbols whitelisted by the ignore marker.
	Ignored Set
	// SelfExport is the one symbol this module is expected to set and
	// read without warning; derived from the file's base name.
	SelfExport string
}

// New creates an empty manifest for the file at path.
func New(path string) *Manifest {
	m := &Manifest{
		Imports:    make(Set),
		Declared:   make(Set),
		Ignored:    make(Set),
		SelfExport: SelfExportName(path),
	}
	m.Declared.Add(MarkerDeclare)
	return m
}

// SelfExportName derives the single-export symbol from a file path:
// the base name without its extension, used verbatim.
func SelfExportName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// RefKind discriminates reads from writes.
type RefKind uint8

const (
	// RefRead is a GETGLOBAL reference.
	RefRead RefKind = iota
	// RefWrite is a SETGLOBAL reference.
	RefWrite
)

func (k RefKind) String() string {
	if k == RefWrite {
		return "write"
	}
	return "read"
}

// Reference is one global access with its source position. References
// arrive grouped by function context, not by line.
type Reference struct {
	Name string
	Line uint32
	Kind RefKind
	Func string
}
