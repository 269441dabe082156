package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"svelab/internal/buildpipeline"
	"svelab/internal/driver"
	"svelab/internal/ui"
)

type elabOutcome struct {
	result *driver.Result
	err    error
}

// runElaborateWithUI runs the driver in the background and shows its
// progress events until it finishes.
func runElaborateWithUI(ctx context.Context, title string, opts driver.Options) (*driver.Result, error) {
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan elabOutcome, 1)

	go func() {
		opts.Sink = buildpipeline.ChannelSink{Ch: events}
		res, err := driver.Elaborate(ctx, opts)
		outcomeCh <- elabOutcome{result: res, err: err}
		close(events)
	}()

	uiErr := ui.Run(title, opts.Files, events, tea.WithOutput(os.Stdout))
	// вид мог закрыться раньше драйвера
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
