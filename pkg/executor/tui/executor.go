// Package tui provides a read-only terminal browser for the phone book:
// a table of entries with a live filter and copy-to-clipboard.
//
// The package is split into:
// - executor.go: program lifecycle
// - model.go: state, Update and View
// - styles.go: colors and styles
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// Executor runs the browser program.
type Executor struct {
	dir       Browser
	source    string
	input     io.Reader
	output    io.Writer
	altScreen bool
}

// ExecutorOption is a function that configures an Executor.
type ExecutorOption func(*Executor)

// WithInput sets the terminal input (default is os.Stdin).
func WithInput(r io.Reader) ExecutorOption {
	return func(e *Executor) {
		e.input = r
	}
}

// WithOutput sets the terminal output (default is os.Stdout).
func WithOutput(w io.Writer) ExecutorOption {
	return func(e *Executor) {
		e.output = w
	}
}

// WithAltScreen runs the browser in the terminal's alternate screen.
func WithAltScreen() ExecutorOption {
	return func(e *Executor) {
		e.altScreen = true
	}
}

// NewExecutor creates a browser over dir. source is the data file name
// shown in the header.
func NewExecutor(dir Browser, source string, opts ...ExecutorOption) *Executor {
	e := &Executor{
		dir:    dir,
		source: source,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run starts the browser and blocks until the user quits or ctx is canceled.
func (e *Executor) Run(ctx context.Context) error {
	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if e.input != nil {
		programOpts = append(programOpts, tea.WithInput(e.input))
	}
	if e.output != nil {
		programOpts = append(programOpts, tea.WithOutput(e.output))
	}
	if e.altScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	program := tea.NewProgram(newModel(e.dir, e.source), programOpts...)
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to run browser: %w", err)
	}
	return nil
}
