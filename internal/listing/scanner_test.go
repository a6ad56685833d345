package listing

import (
	"strings"
	"testing"
)

const sampleListing = "" +
	"main <foo.lua:0,0> (12 instructions, 48 bytes at 0x8068ed0)\n" +
	"0+ params, 2 slots, 0 upvalues, 0 locals, 4 constants, 1 function\n" +
	"\t1\t[1]\tGETGLOBAL\t0 -1\t; require\n" +
	"\t2\t[1]\tLOADK    \t1 -2\t; \"helper\"\n" +
	"\t3\t[1]\tCALL     \t0 2 1\n" +
	"\t4\t[3]\tSETGLOBAL\t0 -3\t; answer\n" +
	"\t5\t[4]\tSETGLOBAL\t0 -4\t; _\n" +
	"function <foo.lua:6,8> (3 instructions, 12 bytes at 0x8069000)\n" +
	"\t1\t[7]\tGETGLOBAL\t0 -1\t; print\n" +
	"\t2\t[7]\tLOADK    \t1 -2\t; 42\n" +
	"\t3\t[8]\tRETURN   \t0 1\n"

func TestScanAll(t *testing.T) {
	records, err := ScanAll(strings.NewReader(sampleListing))
	if err != nil {
		t.Fatalf("ScanAll() error: %v", err)
	}

	want := []Record{
		{Kind: KindFunctionBoundary, Func: MainChunk},
		{Kind: KindGlobalRead, Line: 1, Func: MainChunk, Text: "require"},
		{Kind: KindConstantLoad, Line: 1, Func: MainChunk, Text: "helper"},
		{Kind: KindGlobalWrite, Line: 3, Func: MainChunk, Text: "answer"},
		{Kind: KindFunctionBoundary, Func: "function <foo.lua:6,8>"},
		{Kind: KindGlobalRead, Line: 7, Func: "function <foo.lua:6,8>", Text: "print"},
	}
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d: %+v", len(records), len(want), records)
	}
	for i, rec := range records {
		if rec != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, rec, want[i])
		}
	}
}

func TestClassifyLines(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Record
		ok   bool
	}{
		{
			name: "global read",
			line: "\t1\t[5]\tGETGLOBAL\t0 -1\t; print",
			want: Record{Kind: KindGlobalRead, Line: 5, Func: MainChunk, Text: "print"},
			ok:   true,
		},
		{
			name: "global write",
			line: "\t9\t[12]\tSETGLOBAL\t1 -7\t; result",
			want: Record{Kind: KindGlobalWrite, Line: 12, Func: MainChunk, Text: "result"},
			ok:   true,
		},
		{
			name: "string constant",
			line: "\t2\t[1]\tLOADK    \t1 -2\t; \"a;b\"",
			want: Record{Kind: KindConstantLoad, Line: 1, Func: MainChunk, Text: "a;b"},
			ok:   true,
		},
		{
			name: "numeric constant is skipped",
			line: "\t2\t[1]\tLOADK    \t1 -2\t; 42",
			ok:   false,
		},
		{
			name: "wildcard write is dropped",
			line: "\t4\t[4]\tSETGLOBAL\t0 -4\t; _",
			ok:   false,
		},
		{
			name: "unrelated instruction",
			line: "\t3\t[1]\tCALL     \t0 2 1",
			ok:   false,
		},
		{
			name: "header noise",
			line: "0+ params, 2 slots, 0 upvalues, 0 locals, 4 constants, 0 functions",
			ok:   false,
		},
		{
			name: "missing annotation",
			line: "\t1\t[5]\tGETGLOBAL\t0 -1",
			ok:   false,
		},
		{
			name: "bad line bracket",
			line: "\t1\t[x]\tGETGLOBAL\t0 -1\t; print",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := parseInstruction(tt.line, MainChunk)
			if ok != tt.ok {
				t.Fatalf("parseInstruction() ok = %v, want %v", ok, tt.ok)
			}
			if ok && rec != tt.want {
				t.Errorf("parseInstruction() = %+v, want %+v", rec, tt.want)
			}
		})
	}
}

func TestParseBoundary(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
		ok   bool
	}{
		{"main chunk", "main <foo.lua:0,0> (12 instructions, 48 bytes at 0x0)", MainChunk, true},
		{"nested function", "function <foo.lua:6,8> (3 instructions, 12 bytes at 0x0)", "function <foo.lua:6,8>", true},
		{"instruction line", "\t1\t[5]\tGETGLOBAL\t0 -1\t; print", "", false},
		{"no brackets", "main foo.lua", "", false},
		{"empty context", "main <>", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseBoundary(tt.line)
			if ok != tt.ok || got != tt.want {
				t.Errorf("parseBoundary(%q) = (%q, %v), want (%q, %v)", tt.line, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestScannerRescan(t *testing.T) {
	first, err := ScanAll(strings.NewReader(sampleListing))
	if err != nil {
		t.Fatalf("first scan: %v", err)
	}
	second, err := ScanAll(strings.NewReader(sampleListing))
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("rescan yielded %d records, want %d", len(second), len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("record %d differs between scans: %+v vs %+v", i, first[i], second[i])
		}
	}
}
