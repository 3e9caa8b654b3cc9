package main

import (
	"context"
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"exactcalc/internal/batch"
	"exactcalc/internal/ui"
)

type batchOutcome struct {
	result batch.Result
	err    error
}

// runBatchWithUI runs req while a Bubble Tea program renders its progress
// events.
func runBatchWithUI(ctx context.Context, title string, req *batch.Request) (batch.Result, error) {
	if req == nil {
		return batch.Result{}, errors.New("missing batch request")
	}
	events := make(chan batch.Event, 256)
	outcomeCh := make(chan batchOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = batch.ChannelSink{Ch: events}
		res, err := batch.Run(ctx, &reqCopy)
		outcomeCh <- batchOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, req.Files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// The model stops reading on quit; keep the producer from blocking.
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
