package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"lualint/internal/diag"
	"lualint/internal/driver"
	"lualint/internal/ui"
)

type checkOutcome struct {
	results []driver.Result
	totals  diag.RunTotals
	err     error
}

func runCheckWithUI(ctx context.Context, title string, checker *driver.Checker, jobs []driver.FileJob, opts driver.Options, workers int) ([]driver.Result, diag.RunTotals, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		results, totals, err := checker.CheckFiles(ctx, jobs, optsCopy, workers)
		outcomeCh <- checkOutcome{results: results, totals: totals, err: err}
		close(events)
	}()

	files := make([]string, len(jobs))
	for i, job := range jobs {
		files[i] = job.Path
	}
	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, outcome.totals, uiErr
	}
	return outcome.results, outcome.totals, outcome.err
}
