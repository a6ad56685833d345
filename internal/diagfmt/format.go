// Package diagfmt renders diagnostics in the fixed single-line wire
// format and prints the per-file and run summaries.
package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"lualint/internal/diag"
)

// Options select the rendering style.
type Options struct {
	// Color enables ANSI styling of warning lines and summaries.
	Color bool
	// Quiet drops the summaries; diagnostic lines are always printed.
	Quiet bool
}

var (
	setColor     = color.New(color.FgRed, color.Bold)
	getColor     = color.New(color.FgYellow)
	failColor    = color.New(color.FgRed)
	moduleColor  = color.New(color.FgMagenta)
	summaryColor = color.New(color.FgCyan)
)

// Line renders one diagnostic. Warnings use the parseable reference
// format <file>(<line>) : error <code>: <message>; tool failures carry
// no line or code.
func Line(d diag.Diagnostic) string {
	if d.Severity.Warning() {
		return fmt.Sprintf("%s(%d) : error %d: %s", d.File, d.Line, d.Severity.Code(), d.Message)
	}
	return fmt.Sprintf("%s : %s", d.File, d.Message)
}

func styleFor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevGlobalSet:
		return setColor
	case diag.SevGlobalGet:
		return getColor
	case diag.SevMissingModule:
		return moduleColor
	}
	return failColor
}

// WriteBag prints a sorted bag's diagnostics followed by the file
// summary. Callers sort the bag first.
func WriteBag(w io.Writer, file string, bag *diag.Bag, opts Options) {
	for _, d := range bag.Items() {
		line := Line(d)
		if opts.Color {
			styleFor(d.Severity).Fprintln(w, line)
		} else {
			fmt.Fprintln(w, line)
		}
	}
	if opts.Quiet {
		return
	}
	if n := bag.Warnings(); n > 0 {
		writeSummary(w, opts, "%s: %d warnings (%d set, %d get)",
			file, n, bag.Count(diag.SevGlobalSet), bag.Count(diag.SevGlobalGet))
	}
}

// WriteRunSummary prints the run-wide totals. Intended for multi-file
// runs; single-file runs already said everything in the file summary.
func WriteRunSummary(w io.Writer, totals diag.RunTotals, opts Options) {
	if opts.Quiet {
		return
	}
	writeSummary(w, opts, "%d files linted, %d with warnings", totals.FilesLinted, totals.FilesWithWarnings)
	writeSummary(w, opts, "totals: %d compile errors, %d unresolved imports, %d set, %d get",
		totals.CompileErrors, totals.ModuleFailures, totals.SetWarnings, totals.GetWarnings)
}

func writeSummary(w io.Writer, opts Options, format string, args ...any) {
	if opts.Color {
		summaryColor.Fprintf(w, format+"\n", args...)
		return
	}
	fmt.Fprintf(w, format+"\n", args...)
}
