// Package driver runs the lint pipeline: disassemble, scan, resolve
// imports, classify references. One file at a time or in parallel.
package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"lualint/internal/diag"
	"lualint/internal/listing"
	"lualint/internal/luac"
	"lualint/internal/manifest"
	"lualint/internal/observ"
	"lualint/internal/policy"
	"lualint/internal/resolve"
)

// Options apply to a whole run.
type Options struct {
	// MaxDiagnostics bounds each file's bag; <= 0 means unbounded.
	MaxDiagnostics int
	// NoUnresolved silences unresolved-import diagnostics.
	NoUnresolved bool
	// EnableTimings attaches a per-file phase report to each Result.
	EnableTimings bool
	// Progress receives per-file events; nil is fine.
	Progress ProgressSink
}

// FileJob pairs a file with the policy mode chosen for it. Modes are
// per-file: mode switches on the command line apply to the files that
// follow them.
type FileJob struct {
	Path string
	Mode policy.Mode
}

// Result is the outcome of linting one file.
type Result struct {
	Path string
	Bag  *diag.Bag
	// Timing is set only when Options.EnableTimings was on.
	Timing *observ.Report
}

// Checker owns the pieces shared across files: the disassembler and
// the import resolver with its caches.
type Checker struct {
	disasm   luac.Disassembler
	resolver *resolve.Resolver
}

// New creates a Checker.
func New(disasm luac.Disassembler, resolver *resolve.Resolver) *Checker {
	return &Checker{disasm: disasm, resolver: resolver}
}

// CheckFile lints one file. All failures are reported through the
// returned bag; the file is never fatal for the run.
func (c *Checker) CheckFile(ctx context.Context, job FileJob, opts Options) Result {
	sink := opts.Progress
	if sink == nil {
		sink = nopSink{}
	}
	bag := diag.NewBag(opts.MaxDiagnostics)
	res := Result{Path: job.Path, Bag: bag}

	var timer *observ.Timer
	begin := func(string) int { return -1 }
	end := func(int, string) {}
	if opts.EnableTimings {
		timer = observ.NewTimer()
		begin = timer.Begin
		end = timer.End
	}
	finish := func() Result {
		bag.Sort()
		if timer != nil {
			report := timer.Report()
			res.Timing = &report
		}
		status := StatusDone
		if bag.Count(diag.SevCompileError) > 0 {
			status = StatusError
		}
		sink.OnEvent(Event{File: job.Path, Stage: StageLint, Status: status, Warnings: bag.Warnings()})
		return res
	}

	sink.OnEvent(Event{File: job.Path, Stage: StageCompile, Status: StatusWorking})
	idx := begin("compile")
	text, err := c.disasm.Disassemble(ctx, job.Path)
	if err != nil {
		end(idx, "error")
		// Terminal for this file whether luac rejected the source or the
		// tool itself could not run.
		var compileErr *luac.CompileError
		if errors.As(err, &compileErr) {
			bag.Add(diag.CompileFailure(job.Path, compileErr.Output))
		} else {
			bag.Add(diag.CompileFailure(job.Path, err.Error()))
		}
		return finish()
	}
	end(idx, "")

	sink.OnEvent(Event{File: job.Path, Stage: StageScan, Status: StatusWorking})
	idx = begin("scan")
	records, err := listing.ScanAll(bytes.NewReader(text))
	if err != nil {
		end(idx, "error")
		bag.Add(diag.CompileFailure(job.Path, "scanning listing: "+err.Error()))
		return finish()
	}
	man, refs := manifest.Collect(job.Path, records)
	scanNote := ""
	if timer != nil {
		scanNote = fmt.Sprintf("records=%d refs=%d", len(records), len(refs))
	}
	end(idx, scanNote)

	sink.OnEvent(Event{File: job.Path, Stage: StageResolve, Status: StatusWorking})
	idx = begin("resolve")
	importDecls := c.resolveImports(ctx, job.Path, man, bag, opts)
	resolveNote := ""
	if timer != nil {
		resolveNote = fmt.Sprintf("imports=%d", len(man.Imports))
	}
	end(idx, resolveNote)

	sink.OnEvent(Event{File: job.Path, Stage: StageLint, Status: StatusWorking})
	idx = begin("lint")
	engine := policy.NewEngine(job.Mode, man, importDecls)
	for _, ref := range refs {
		if !engine.Decide(ref) {
			continue
		}
		if ref.Kind == manifest.RefWrite {
			bag.Add(diag.SetWarning(job.Path, ref.Line, ref.Name))
		} else {
			bag.Add(diag.GetWarning(job.Path, ref.Line, ref.Name))
		}
	}
	end(idx, "")

	return finish()
}

// resolveImports resolves each imported module one level deep and
// merges the declared symbols of the targets. Resolution failures
// become per-import diagnostics unless silenced.
func (c *Checker) resolveImports(ctx context.Context, file string, man *manifest.Manifest, bag *diag.Bag, opts Options) manifest.Set {
	decls := make(manifest.Set)
	modules := man.Imports.Names()
	sort.Strings(modules)
	for _, module := range modules {
		dep, err := c.resolver.Resolve(ctx, module)
		if err != nil {
			if !opts.NoUnresolved {
				detail := ""
				if !errors.Is(err, resolve.ErrNotFound) {
					detail = err.Error()
				}
				bag.Add(diag.UnresolvedImport(file, module, detail))
			}
			continue
		}
		for name := range dep.Declared {
			decls.Add(name)
		}
	}
	return decls
}
