package driver

import (
	"context"
	"sync"
	"testing"

	"lualint/internal/diag"
	"lualint/internal/policy"
)

// recordingSink collects events behind a mutex so parallel workers can
// share it.
type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

func (s *recordingSink) byStatus(status Status) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for _, ev := range s.events {
		if ev.Status == status {
			out = append(out, ev)
		}
	}
	return out
}

func TestCheckFilesResultsInJobOrder(t *testing.T) {
	disasm := &fakeDisasm{listings: map[string]string{
		"a.lua": mainHeader("a.lua") + getLine(1, "g_a"),
		"b.lua": mainHeader("b.lua"),
		"c.lua": mainHeader("c.lua") + setLine(2, "g_c") + getLine(3, "g_c"),
	}}
	c := newChecker(disasm, "")

	jobs := []FileJob{
		{Path: "a.lua", Mode: policy.ModeStrict},
		{Path: "b.lua", Mode: policy.ModeStrict},
		{Path: "c.lua", Mode: policy.ModeRelaxed},
	}
	results, totals, err := c.CheckFiles(context.Background(), jobs, Options{}, 2)
	if err != nil {
		t.Fatalf("CheckFiles() error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, job := range jobs {
		if results[i].Path != job.Path {
			t.Errorf("results[%d].Path = %q, want %q", i, results[i].Path, job.Path)
		}
	}

	if totals.FilesLinted != 3 || totals.FilesWithWarnings != 2 {
		t.Errorf("totals = %+v, want 3 linted, 2 with warnings", totals)
	}
	// c.lua runs relaxed: its read of g_c after the write is suppressed.
	if totals.SetWarnings != 1 || totals.GetWarnings != 1 {
		t.Errorf("totals = %+v, want 1 set, 1 get", totals)
	}
	if totals.Outcome() != diag.ExitSetWarnings {
		t.Errorf("Outcome() = %d, want %d", totals.Outcome(), diag.ExitSetWarnings)
	}
}

func TestCheckFilesEmptyJobs(t *testing.T) {
	c := newChecker(&fakeDisasm{}, "")
	results, totals, err := c.CheckFiles(context.Background(), nil, Options{}, 4)
	if err != nil || len(results) != 0 || totals.FilesLinted != 0 {
		t.Errorf("empty run = (%v, %+v, %v), want clean zeroes", results, totals, err)
	}
}

func TestCheckFilesProgressEvents(t *testing.T) {
	disasm := &fakeDisasm{
		listings: map[string]string{"ok.lua": mainHeader("ok.lua") + getLine(1, "g_x")},
		fail:     map[string]string{"bad.lua": "syntax error"},
	}
	c := newChecker(disasm, "")
	sink := &recordingSink{}

	jobs := []FileJob{{Path: "ok.lua"}, {Path: "bad.lua"}}
	if _, _, err := c.CheckFiles(context.Background(), jobs, Options{Progress: sink}, 1); err != nil {
		t.Fatalf("CheckFiles() error: %v", err)
	}

	if got := sink.byStatus(StatusQueued); len(got) != 2 {
		t.Errorf("queued events = %d, want 2", len(got))
	}
	done := sink.byStatus(StatusDone)
	if len(done) != 1 || done[0].File != "ok.lua" {
		t.Fatalf("done events = %v, want one for ok.lua", done)
	}
	if done[0].Warnings != 1 {
		t.Errorf("done warnings = %d, want 1", done[0].Warnings)
	}
	failed := sink.byStatus(StatusError)
	if len(failed) != 1 || failed[0].File != "bad.lua" {
		t.Errorf("error events = %v, want one for bad.lua", failed)
	}
}

func TestCheckFilesCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	disasm := &fakeDisasm{listings: map[string]string{"a.lua": mainHeader("a.lua")}}
	c := newChecker(disasm, "")
	_, _, err := c.CheckFiles(ctx, []FileJob{{Path: "a.lua"}}, Options{}, 1)
	if err == nil {
		t.Error("CheckFiles() with canceled context returned nil error")
	}
}
