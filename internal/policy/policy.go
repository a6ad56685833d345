// Package policy decides, per global reference, whether it is a
// reportable defect or a suppressed one.
package policy

import "lualint/internal/manifest"

// Mode selects how reads of previously written globals are treated.
type Mode uint8

const (
	// ModeStrict reports reads regardless of prior same-file writes.
	// The default.
	ModeStrict Mode = iota
	// ModeRelaxed suppresses read warnings for symbols already written
	// earlier in the same file.
	ModeRelaxed
)

func (m Mode) String() string {
	if m == ModeRelaxed {
		return "relaxed"
	}
	return "strict"
}

// Engine applies the suppression decision table for one file. Not safe
// for concurrent use; create one per file.
type Engine struct {
	mode Mode
	man  *manifest.Manifest
	// importDecls is the union of declaredSymbols merged in from each
	// resolved import (one level only).
	importDecls manifest.Set
	// written tracks symbols written earlier in this file, suppressed
	// writes included. Only relaxed-mode reads consult it.
	written manifest.Set
}

// NewEngine creates an engine for one file's manifest and merged
// import declarations. importDecls may be nil.
func NewEngine(mode Mode, man *manifest.Manifest, importDecls manifest.Set) *Engine {
	if importDecls == nil {
		importDecls = make(manifest.Set)
	}
	return &Engine{
		mode:        mode,
		man:         man,
		importDecls: importDecls,
		written:     make(manifest.Set),
	}
}

// Decide reports whether ref is reportable. References must be fed in
// listing order; the engine records writes as it goes for the relaxed
// read rule. Suppression withholds the diagnostic, never the record.
func (e *Engine) Decide(ref manifest.Reference) bool {
	if ref.Kind == manifest.RefWrite {
		reportable := ref.Name != e.man.SelfExport && !e.man.Declared.Has(ref.Name)
		e.written.Add(ref.Name)
		return reportable
	}

	if e.mode == ModeRelaxed && e.written.Has(ref.Name) {
		return false
	}
	switch {
	case ref.Name == e.man.SelfExport,
		e.man.Ignored.Has(ref.Name),
		e.man.Imports.Has(ref.Name),
		e.man.Declared.Has(ref.Name),
		e.importDecls.Has(ref.Name),
		Builtin(ref.Name):
		return false
	}
	return true
}
