package luac

import (
	"errors"
	"strings"
	"testing"
)

func TestCompileErrorMessage(t *testing.T) {
	err := &CompileError{Path: "bad.lua", Output: "unexpected symbol near ')'"}
	if got := err.Error(); got != "bad.lua: compile failed: unexpected symbol near ')'" {
		t.Errorf("Error() = %q", got)
	}
	bare := &CompileError{Path: "bad.lua"}
	if got := bare.Error(); got != "bad.lua: compile failed" {
		t.Errorf("Error() without output = %q", got)
	}
}

func TestCompileErrorUnwrapsThroughAs(t *testing.T) {
	var wrapped error = &CompileError{Path: "x.lua"}
	var target *CompileError
	if !errors.As(wrapped, &target) || target.Path != "x.lua" {
		t.Errorf("errors.As failed for %v", wrapped)
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct{ in, want string }{
		{"one\ntwo\nthree", "one"},
		{"  padded  \n", "padded"},
		{"", ""},
		{"single", "single"},
	}
	for _, tt := range tests {
		if got := firstLine(tt.in); got != tt.want {
			t.Errorf("firstLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if strings.Contains(firstLine("a\nb"), "\n") {
		t.Error("firstLine kept a newline")
	}
}
