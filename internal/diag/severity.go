package diag

// Severity classifies a diagnostic.
type Severity uint8

const (
	// SevCompileError: the file's listing could not be produced.
	// Terminal for the file, never for the run.
	SevCompileError Severity = iota
	// SevMissingModule: an imported module could not be resolved or its
	// listing could not be produced. Non-fatal, optionally silenced.
	SevMissingModule
	// SevGlobalSet: a write to an undeclared global.
	SevGlobalSet
	// SevGlobalGet: a read of an unknown global.
	SevGlobalGet
)

func (s Severity) String() string {
	switch s {
	case SevCompileError:
		return "COMPILE"
	case SevMissingModule:
		return "MODULE"
	case SevGlobalSet:
		return "SET"
	case SevGlobalGet:
		return "GET"
	}
	return "UNKNOWN"
}

// Code returns the numeric code used in the wire format: 1 for write
// warnings, 2 for read warnings. Other severities carry no reference
// code and return 0.
func (s Severity) Code() int {
	switch s {
	case SevGlobalSet:
		return 1
	case SevGlobalGet:
		return 2
	}
	return 0
}

// Warning reports whether this severity counts toward a file's warning
// totals. Compile and module failures are tracked separately.
func (s Severity) Warning() bool {
	return s == SevGlobalSet || s == SevGlobalGet
}
