package listing

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// Scanner turns an instruction-listing text stream into a sequence of
// typed records. It recognizes three line shapes (function boundaries,
// LOADK constant loads, GETGLOBAL/SETGLOBAL accesses) and skips
// everything else.
type Scanner struct {
	sc  *bufio.Scanner
	fn  string // enclosing function context for subsequent records
	err error
}

// NewScanner creates a scanner over a listing stream. Until the first
// boundary line every record is attributed to the main chunk.
func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Scanner{sc: sc, fn: MainChunk}
}

// Next returns the next record. ok is false once the stream is
// exhausted; rescan by constructing a new Scanner over the same bytes.
func (s *Scanner) Next() (rec Record, ok bool) {
	for s.sc.Scan() {
		rec, ok = s.classify(s.sc.Text())
		if ok {
			return rec, true
		}
	}
	s.err = s.sc.Err()
	return Record{}, false
}

// Err reports a read error from the underlying stream, if any.
func (s *Scanner) Err() error { return s.err }

// ScanAll collects every record from a listing stream.
func ScanAll(r io.Reader) ([]Record, error) {
	s := NewScanner(r)
	var out []Record
	for {
		rec, ok := s.Next()
		if !ok {
			break
		}
		out = append(out, rec)
	}
	return out, s.Err()
}

func (s *Scanner) classify(line string) (Record, bool) {
	if ctx, ok := parseBoundary(line); ok {
		s.fn = ctx
		return Record{Kind: KindFunctionBoundary, Func: ctx}, true
	}
	return parseInstruction(line, s.fn)
}

// parseBoundary matches lines of the shape `word <context-id> ...`.
// luac emits `main <file:0,0> (...)` for the top-level chunk and
// `function <file:from,to> (...)` for every nested function.
func parseBoundary(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 || !isBareWord(fields[0]) {
		return "", false
	}
	id, ok := strings.CutPrefix(fields[1], "<")
	if !ok {
		return "", false
	}
	id, ok = strings.CutSuffix(id, ">")
	if !ok || id == "" {
		return "", false
	}
	if fields[0] == "main" {
		return MainChunk, true
	}
	return fmt.Sprintf("%s <%s>", fields[0], id), true
}

// parseInstruction matches the two instruction shapes the linter cares
// about. A luac instruction line looks like
//
//	1	[5]	GETGLOBAL	0 -1	; print
//
// i.e. sequence number, bracketed source line, mnemonic, operands and a
// trailing annotation after a semicolon.
func parseInstruction(line, fn string) (Record, bool) {
	body, note, hasNote := strings.Cut(line, ";")
	if !hasNote {
		return Record{}, false
	}
	fields := strings.Fields(body)
	if len(fields) < 3 {
		return Record{}, false
	}
	srcLine, ok := parseBracketedLine(fields[1])
	if !ok {
		return Record{}, false
	}
	note = strings.TrimSpace(note)

	switch fields[2] {
	case "LOADK":
		lit, ok := unquote(note)
		if !ok {
			// Non-string constant (number, boolean); irrelevant here.
			return Record{}, false
		}
		return Record{Kind: KindConstantLoad, Line: srcLine, Func: fn, Text: lit}, true
	case "GETGLOBAL", "SETGLOBAL":
		if note == "" || note == DiscardSymbol {
			return Record{}, false
		}
		kind := KindGlobalRead
		if fields[2] == "SETGLOBAL" {
			kind = KindGlobalWrite
		}
		return Record{Kind: kind, Line: srcLine, Func: fn, Text: note}, true
	}
	return Record{}, false
}

func parseBracketedLine(field string) (uint32, bool) {
	inner, ok := strings.CutPrefix(field, "[")
	if !ok {
		return 0, false
	}
	inner, ok = strings.CutSuffix(inner, "]")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(inner)
	if err != nil || n < 0 {
		return 0, false
	}
	line, err := safecast.Conv[uint32](n)
	if err != nil {
		return 0, false
	}
	return line, true
}

func unquote(note string) (string, bool) {
	if len(note) < 2 || note[0] != '"' || note[len(note)-1] != '"' {
		return "", false
	}
	return note[1 : len(note)-1], true
}

func isBareWord(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' {
			continue
		}
		return false
	}
	return true
}
