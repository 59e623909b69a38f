// Package cli provides the interactive menu for the phone book.
//
// Example usage:
//
//	store := directory.NewStore()
//	executor := cli.NewExecutor(store,
//	    cli.WithDataFile("phonebook.json"),
//	)
//
//	if err := executor.Run(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/entrhq/phonebook/pkg/config"
	"github.com/entrhq/phonebook/pkg/directory"
	"github.com/entrhq/phonebook/pkg/logging"
)

// Directory is the set of phone book operations the menu drives.
// *directory.Store implements it.
type Directory interface {
	Add(nationalID, name, phoneNumber string) (directory.Entry, error)
	Get(nationalID string) (directory.Entry, error)
	List() ([]directory.Entry, error)
	Search(term string) ([]directory.Entry, error)
	Update(nationalID, name, phoneNumber string) (directory.Entry, error)
	Delete(nationalID string) error
	Save(path string) error
	Load(path string) error
}

var _ Directory = (*directory.Store)(nil)

// Executor runs the numbered menu loop, reading answers from a reader
// and printing results to a writer.
type Executor struct {
	dir      Directory
	reader   *bufio.Reader
	writer   io.Writer
	dataFile string
	logger   *logging.Logger

	lines <-chan line // fed by Run's reader goroutine
}

// ExecutorOption is a function that configures an Executor.
type ExecutorOption func(*Executor)

// WithReader sets the input source (default is os.Stdin).
func WithReader(r io.Reader) ExecutorOption {
	return func(e *Executor) {
		e.reader = bufio.NewReader(r)
	}
}

// WithWriter sets a custom output writer (default is os.Stdout).
func WithWriter(w io.Writer) ExecutorOption {
	return func(e *Executor) {
		e.writer = w
	}
}

// WithDataFile sets the file used by the save and load actions.
func WithDataFile(path string) ExecutorOption {
	return func(e *Executor) {
		e.dataFile = path
	}
}

// WithLogger sets the session logger (default discards).
func WithLogger(l *logging.Logger) ExecutorOption {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExecutor creates a new menu executor for the given directory.
func NewExecutor(dir Directory, opts ...ExecutorOption) *Executor {
	e := &Executor{
		dir:      dir,
		reader:   bufio.NewReader(os.Stdin),
		writer:   os.Stdout,
		dataFile: config.DefaultDataFile,
		logger:   logging.NewNopLogger(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// errExit ends the menu loop without error.
var errExit = errors.New("exit")

// line is one read from the input, kept with the error that ended it.
type line struct {
	text string
	err  error
}

// Run shows the menu until the user picks Exit, input ends, or ctx is
// canceled. Cancellation also interrupts a pending prompt; Run then
// returns ctx.Err() and nothing further is read or saved.
//
// Input is read on a separate goroutine. After a cancellation that
// goroutine may still be blocked on the reader, so an Executor must not
// be run again once canceled.
func (e *Executor) Run(ctx context.Context) error {
	e.logger.Infof("Session started with data file %s", e.dataFile)

	done := make(chan struct{})
	defer close(done)
	e.lines = readLines(e.reader, done)

	for {
		select {
		case <-ctx.Done():
			return e.finish(ctx.Err())
		default:
		}

		e.printMenu()
		choice, err := e.prompt(ctx, "Enter your choice: ")
		if err != nil {
			return e.finish(err)
		}

		if err := e.dispatch(ctx, choice); err != nil {
			return e.finish(err)
		}

		fmt.Fprintln(e.writer)
	}
}

// readLines reads r line by line until a read fails, handing each line
// over unless done is closed first. The channel closes after the failing
// read has been delivered.
func readLines(r *bufio.Reader, done <-chan struct{}) <-chan line {
	lines := make(chan line)
	go func() {
		defer close(lines)
		for {
			text, err := r.ReadString('\n')
			select {
			case lines <- line{text: text, err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return lines
}

// finish turns end-of-input and the exit action into a clean return.
// Cancellation is returned as is so callers can match it.
func (e *Executor) finish(err error) error {
	switch {
	case errors.Is(err, errExit) || errors.Is(err, io.EOF):
		fmt.Fprintln(e.writer, "Exiting...")
		e.logger.Infof("Session ended")
		return nil
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintln(e.writer)
		e.logger.Infof("Session canceled: %v", err)
		return err
	}
	e.logger.Errorf("Session failed: %v", err)
	return fmt.Errorf("failed to read input: %w", err)
}

func (e *Executor) printMenu() {
	fmt.Fprintln(e.writer, "Phone Book Menu:")
	for i, item := range menuItems {
		fmt.Fprintf(e.writer, "%d. %s\n", i+1, item.label)
	}
}

// prompt prints label and waits for the next input line, returned
// without its line ending. A final line without a newline is still
// returned; after it every prompt reports io.EOF.
func (e *Executor) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(e.writer, label)

	if err := ctx.Err(); err != nil {
		return "", err
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-e.lines:
		if !ok {
			return "", io.EOF
		}
		if l.err != nil && !(errors.Is(l.err, io.EOF) && l.text != "") {
			return "", l.err
		}
		return strings.TrimRight(l.text, "\r\n"), nil
	}
}

func (e *Executor) printEntry(entry directory.Entry) {
	fmt.Fprintf(e.writer, "National ID: %s\tName: %s\tPhone Number: %s\n",
		entry.NationalID, entry.Name, entry.PhoneNumber)
}

// printStatus prints a store failure as a sentence, optionally followed
// by what did not happen.
func (e *Executor) printStatus(err error, suffix string) {
	msg := capitalize(err.Error()) + "."
	if suffix != "" {
		msg += " " + suffix
	}
	fmt.Fprintln(e.writer, msg)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
