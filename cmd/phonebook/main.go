// Package main provides the phone book application: an interactive menu
// for adding, listing, searching, updating, deleting, saving and loading
// contact entries keyed by national ID.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/phonebook/pkg/config"
	"github.com/entrhq/phonebook/pkg/directory"
	"github.com/entrhq/phonebook/pkg/executor/cli"
	"github.com/entrhq/phonebook/pkg/executor/tui"
	"github.com/entrhq/phonebook/pkg/logging"
)

const version = "0.1.0" // Version of the phone book

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if cfg.ShowVersion {
		fmt.Printf("phonebook v%s\n", version)
		return
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Interrupting the menu is a normal way to leave it
	if err := run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		stop()
		log.Fatalf("Application error: %v", err)
	}
}

// parseFlags reads the environment, then lets command line flags override it
func parseFlags(args []string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("phonebook", flag.ExitOnError)
	cfg.RegisterFlags(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "phonebook - an interactive contact directory\n\n")
		fmt.Fprintf(os.Stderr, "Usage: phonebook [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  PHONEBOOK_FILE            Phone book file (default %s)\n", config.DefaultDataFile)
		fmt.Fprintf(os.Stderr, "  PHONEBOOK_LOG_DIR         Log directory (default ~/.phonebook/logs)\n")
		fmt.Fprintf(os.Stderr, "  PHONEBOOK_STRICT_UPDATE   Validate updates like additions\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  phonebook                          # Menu over ./phonebook.json\n")
		fmt.Fprintf(os.Stderr, "  phonebook -file contacts.yaml      # Save and load YAML\n")
		fmt.Fprintf(os.Stderr, "  phonebook -browse                  # Browse the saved phone book\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run executes the main application logic
func run(ctx context.Context, cfg *config.Config) error {
	logging.SetLogDirectory(cfg.LogDir)
	logger, err := logging.NewLogger("phonebook")
	if err != nil {
		// The fallback logger still works; carry on with stderr logging
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer logger.Close()

	var storeOpts []directory.StoreOption
	if cfg.StrictUpdate {
		storeOpts = append(storeOpts, directory.WithStrictUpdates())
	}
	store := directory.NewStore(storeOpts...)

	if cfg.Browse {
		return runBrowser(ctx, cfg, store, logger)
	}

	executor := cli.NewExecutor(store,
		cli.WithDataFile(cfg.DataFile),
		cli.WithLogger(logger),
	)
	return executor.Run(ctx)
}

// runBrowser loads the data file and opens the read-only browser
func runBrowser(ctx context.Context, cfg *config.Config, store *directory.Store, logger *logging.Logger) error {
	if err := store.Load(cfg.DataFile); err != nil {
		logger.Errorf("Browse load failed: %v", err)
		return fmt.Errorf("failed to load phone book: %w", err)
	}
	logger.Infof("Browsing %d entries from %s", store.Count(), cfg.DataFile)

	return tui.NewExecutor(store, cfg.DataFile, tui.WithAltScreen()).Run(ctx)
}
