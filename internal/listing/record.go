package listing

// MainChunk is the normalized context name for the top-level chunk.
// luac labels it with the bare word "main".
const MainChunk = "main chunk"

// DiscardSymbol is the wildcard name Lua uses for values that are
// assigned only to be thrown away. Accesses to it are never globals
// worth reporting and are dropped before records are emitted.
const DiscardSymbol = "_"

// Kind discriminates the closed set of record variants the scanner emits.
type Kind uint8

const (
	// KindFunctionBoundary opens a new instruction block for a function.
	KindFunctionBoundary Kind = iota
	// KindConstantLoad is a LOADK of a string literal.
	KindConstantLoad
	// KindGlobalRead is a GETGLOBAL instruction.
	KindGlobalRead
	// KindGlobalWrite is a SETGLOBAL instruction.
	KindGlobalWrite
)

func (k Kind) String() string {
	switch k {
	case KindFunctionBoundary:
		return "FunctionBoundary"
	case KindConstantLoad:
		return "ConstantLoad"
	case KindGlobalRead:
		return "GlobalRead"
	case KindGlobalWrite:
		return "GlobalWrite"
	}
	return "Unknown"
}

// Record is one typed fact reconstructed from the instruction listing.
// Records are immutable and ordered by appearance in the listing; line
// numbers are source lines and need not be monotonic because nested
// function bodies interleave with the chunks that contain them.
type Record struct {
	Kind Kind
	// Line is the source line carried in the instruction's [N] field.
	// Zero for function boundaries.
	Line uint32
	// Func names the enclosing function context. For boundaries it is
	// the context being opened.
	Func string
	// Text is the payload: the literal value for constant loads, the
	// symbol name for global accesses, empty for boundaries.
	Text string
}
