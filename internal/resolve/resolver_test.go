package resolve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"lualint/internal/luac"
	"lualint/internal/manifest"
)

// fakeDisasm serves canned listings by file base name and counts
// invocations so cache behavior can be asserted.
type fakeDisasm struct {
	listings map[string]string
	fail     map[string]string // base name -> compiler stderr
	calls    int
}

func (f *fakeDisasm) Disassemble(_ context.Context, path string) ([]byte, error) {
	f.calls++
	base := filepath.Base(path)
	if msg, ok := f.fail[base]; ok {
		return nil, &luac.CompileError{Path: path, Output: msg}
	}
	text, ok := f.listings[base]
	if !ok {
		return nil, fmt.Errorf("no listing for %s", path)
	}
	return []byte(text), nil
}

// declaringListing builds a minimal listing that declares the given
// symbols via the declare marker.
func declaringListing(file string, symbols ...string) string {
	out := fmt.Sprintf("main <%s:0,0> (10 instructions, 40 bytes at 0x0)\n", file)
	for i, sym := range symbols {
		out += fmt.Sprintf("\t%d\t[%d]\tGETGLOBAL\t0 -1\t; %s\n", i*3+1, i+1, manifest.MarkerDeclare)
		out += fmt.Sprintf("\t%d\t[%d]\tLOADK    \t1 -2\t; %q\n", i*3+2, i+1, sym)
		out += fmt.Sprintf("\t%d\t[%d]\tCALL     \t0 2 1\n", i*3+3, i+1)
	}
	return out
}

func writeModule(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name+".lua")
	if err := os.WriteFile(path, []byte("-- module "+name), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolveMergesDeclarations(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "helper")

	disasm := &fakeDisasm{listings: map[string]string{
		"helper.lua": declaringListing("helper.lua", "g_exported"),
	}}
	r := NewResolver(Parse(filepath.Join(dir, "?.lua")), disasm)

	man, err := r.Resolve(context.Background(), "helper")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !man.Declared.Has("g_exported") {
		t.Errorf("declared = %v, want g_exported", man.Declared.Names())
	}
	if man.SelfExport != "helper" {
		t.Errorf("SelfExport = %q, want helper", man.SelfExport)
	}
}

func TestResolveNotFound(t *testing.T) {
	r := NewResolver(Parse(filepath.Join(t.TempDir(), "?.lua")), &fakeDisasm{})
	_, err := r.Resolve(context.Background(), "absent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve() error = %v, want ErrNotFound", err)
	}
}

func TestResolveCompileFailure(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "broken")

	disasm := &fakeDisasm{fail: map[string]string{"broken.lua": "unexpected symbol near ')'"}}
	r := NewResolver(Parse(filepath.Join(dir, "?.lua")), disasm)

	_, err := r.Resolve(context.Background(), "broken")
	var compileErr *luac.CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("Resolve() error = %v, want *luac.CompileError", err)
	}
}

func TestResolveCachesByContent(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "helper")

	disasm := &fakeDisasm{listings: map[string]string{
		"helper.lua": declaringListing("helper.lua", "g_exported"),
	}}
	r := NewResolver(Parse(filepath.Join(dir, "?.lua")), disasm)

	for i := 0; i < 3; i++ {
		if _, err := r.Resolve(context.Background(), "helper"); err != nil {
			t.Fatalf("Resolve() #%d error: %v", i, err)
		}
	}
	if disasm.calls != 1 {
		t.Errorf("disassembler invoked %d times, want 1 (cache)", disasm.calls)
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	disk, err := OpenDiskCache("lualint-test")
	if err != nil {
		t.Fatalf("OpenDiskCache() error: %v", err)
	}

	man := manifest.New("helper.lua")
	man.Imports.Add("dep")
	man.Declared.Add("g_exported")
	man.Ignored.Add("g_maybe")
	key := HashContent([]byte("-- module helper"))

	if err := disk.Put(key, "helper.lua", man); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	got, ok, err := disk.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get() = (%v, %v), want hit", ok, err)
	}
	for _, name := range []string{"g_exported", manifest.MarkerDeclare} {
		if !got.Declared.Has(name) {
			t.Errorf("declared missing %q", name)
		}
	}
	if !got.Imports.Has("dep") || !got.Ignored.Has("g_maybe") {
		t.Errorf("round-trip lost sets: imports=%v ignored=%v", got.Imports.Names(), got.Ignored.Names())
	}
	if got.SelfExport != "helper" {
		t.Errorf("SelfExport = %q, want helper", got.SelfExport)
	}

	if _, ok, _ := disk.Get(HashContent([]byte("other"))); ok {
		t.Error("Get() with unknown key hit, want miss")
	}
}

func TestDiskCacheServesResolver(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	writeModule(t, dir, "helper")

	disk, err := OpenDiskCache("lualint-test")
	if err != nil {
		t.Fatal(err)
	}

	listings := map[string]string{"helper.lua": declaringListing("helper.lua", "g_exported")}

	first := &fakeDisasm{listings: listings}
	r1 := NewResolver(Parse(filepath.Join(dir, "?.lua")), first).WithDiskCache(disk)
	if _, err := r1.Resolve(context.Background(), "helper"); err != nil {
		t.Fatal(err)
	}
	if first.calls != 1 {
		t.Fatalf("first run: %d disassembler calls, want 1", first.calls)
	}

	// A fresh resolver (new run) must be served from disk.
	second := &fakeDisasm{listings: listings}
	r2 := NewResolver(Parse(filepath.Join(dir, "?.lua")), second).WithDiskCache(disk)
	man, err := r2.Resolve(context.Background(), "helper")
	if err != nil {
		t.Fatal(err)
	}
	if second.calls != 0 {
		t.Errorf("second run: %d disassembler calls, want 0 (disk cache)", second.calls)
	}
	if !man.Declared.Has("g_exported") {
		t.Errorf("disk-served manifest lost declarations: %v", man.Declared.Names())
	}
}
