// Package luac shells out to the Lua bytecode compiler to obtain the
// instruction listing the linter scans. The Disassembler interface keeps
// the core decoupled from any particular binary; tests feed synthetic
// listings instead.
package luac

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single compiler invocation. A hung compiler
// must not stall the whole batch.
const DefaultTimeout = 30 * time.Second

// Disassembler produces the instruction listing for one source file.
type Disassembler interface {
	// Disassemble returns the listing text for path. A source file the
	// compiler rejects yields a *CompileError; the caller converts it
	// into a per-file diagnostic and moves on.
	Disassemble(ctx context.Context, path string) ([]byte, error)
}

// CompileError reports that the compiler could not produce a listing
// for a file. Terminal for that file, never for the run.
type CompileError struct {
	Path   string
	Output string // compiler stderr, trimmed
}

func (e *CompileError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s: compile failed", e.Path)
	}
	return fmt.Sprintf("%s: compile failed: %s", e.Path, e.Output)
}

// Exec invokes the real luac binary with -p -l (parse only, list).
type Exec struct {
	// Luac is the compiler binary; "luac" when empty.
	Luac string
	// Timeout bounds one invocation; DefaultTimeout when zero.
	Timeout time.Duration
}

// Disassemble implements Disassembler.
func (x Exec) Disassemble(ctx context.Context, path string) ([]byte, error) {
	bin := x.Luac
	if bin == "" {
		bin = "luac"
	}
	timeout := x.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, "-p", "-l", path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s: %s timed out: %w", path, bin, ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &CompileError{Path: path, Output: firstLine(stderr.String())}
		}
		return nil, fmt.Errorf("%s: failed to run %s: %w", path, bin, err)
	}
	return stdout.Bytes(), nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
