package diag

// Exit statuses in the run outcome precedence. Checked top-down: the
// first condition that holds picks the status.
const (
	ExitClean         = 0
	ExitGetWarnings   = 1
	ExitSetWarnings   = 2
	ExitModuleFailure = 3
	ExitCompileError  = 4
)

// RunTotals are the run-wide counters, merged from per-file bags as
// files complete. A value, not shared state: parallel workers keep
// partials and the caller merges them.
type RunTotals struct {
	FilesLinted       int
	FilesWithWarnings int
	CompileErrors     int
	ModuleFailures    int
	SetWarnings       int
	GetWarnings       int
}

// AddFile folds one completed file's bag into the totals.
func (t *RunTotals) AddFile(bag *Bag) {
	t.FilesLinted++
	if bag == nil {
		return
	}
	t.CompileErrors += bag.Count(SevCompileError)
	t.ModuleFailures += bag.Count(SevMissingModule)
	t.SetWarnings += bag.Count(SevGlobalSet)
	t.GetWarnings += bag.Count(SevGlobalGet)
	if bag.Warnings() > 0 {
		t.FilesWithWarnings++
	}
}

// Merge folds another partial into t.
func (t *RunTotals) Merge(other RunTotals) {
	t.FilesLinted += other.FilesLinted
	t.FilesWithWarnings += other.FilesWithWarnings
	t.CompileErrors += other.CompileErrors
	t.ModuleFailures += other.ModuleFailures
	t.SetWarnings += other.SetWarnings
	t.GetWarnings += other.GetWarnings
}

// Outcome selects the run's exit status. Precedence: compile errors,
// then unresolved imports, then set warnings, then get warnings. The
// module-failure check outranking set warnings follows the documented
// order; see DESIGN.md.
func (t RunTotals) Outcome() int {
	switch {
	case t.CompileErrors > 0:
		return ExitCompileError
	case t.ModuleFailures > 0:
		return ExitModuleFailure
	case t.SetWarnings > 0:
		return ExitSetWarnings
	case t.GetWarnings > 0:
		return ExitGetWarnings
	}
	return ExitClean
}
