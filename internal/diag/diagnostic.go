// Package diag defines the linter's diagnostics, the per-file bag that
// collects and orders them, and the run-wide totals that pick the exit
// status.
package diag

import "fmt"

// Diagnostic is one reportable finding. Never mutated after creation.
type Diagnostic struct {
	Severity Severity
	File     string
	// Line is the source line the reference occurred on; zero when no
	// position applies (compile failures, unresolved imports).
	Line    uint32
	Message string
}

// SetWarning builds the write-warning diagnostic for a symbol.
func SetWarning(file string, line uint32, name string) Diagnostic {
	return Diagnostic{
		Severity: SevGlobalSet,
		File:     file,
		Line:     line,
		Message:  "*** global SET of: " + name,
	}
}

// GetWarning builds the read-warning diagnostic for a symbol.
func GetWarning(file string, line uint32, name string) Diagnostic {
	return Diagnostic{
		Severity: SevGlobalGet,
		File:     file,
		Line:     line,
		Message:  "global get of: " + name,
	}
}

// CompileFailure builds the terminal per-file compile diagnostic.
func CompileFailure(file, detail string) Diagnostic {
	msg := "compile failed"
	if detail != "" {
		msg += ": " + detail
	}
	return Diagnostic{Severity: SevCompileError, File: file, Message: msg}
}

// UnresolvedImport builds the diagnostic for an import that could not
// be resolved or parsed.
func UnresolvedImport(file, module, detail string) Diagnostic {
	msg := fmt.Sprintf("module %q could not be resolved", module)
	if detail != "" {
		msg += ": " + detail
	}
	return Diagnostic{Severity: SevMissingModule, File: file, Message: msg}
}
