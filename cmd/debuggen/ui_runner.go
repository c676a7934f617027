package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"debuggen/internal/driver"
	"debuggen/internal/types"
	"debuggen/internal/ui"
)

type generateOutcome struct {
	result *driver.Result
	err    error
}

// generateWithUI runs driver.Generate while a progress view follows it on stderr.
func generateWithUI(ctx context.Context, title string, g *types.Graph, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.ProgressEvent, 256)
	outcomeCh := make(chan generateOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.Generate(ctx, g, opts)
		outcomeCh <- generateOutcome{result: res, err: err}
		close(events)
	}()

	program := tea.NewProgram(ui.NewProgressModel(title, events), tea.WithOutput(os.Stderr), tea.WithInput(nil))
	_, uiErr := program.Run()
	// Keep renderers unblocked if the view stopped early.
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
