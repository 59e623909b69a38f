// Package config holds the runtime settings of the phone book binary.
// Values come from PHONEBOOK_* environment variables and can be
// overridden on the command line.
package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// DefaultDataFile is the file used by save and load when nothing else is configured.
const DefaultDataFile = "phonebook.json"

// Config holds the application configuration
type Config struct {
	DataFile     string `env:"PHONEBOOK_FILE"`
	LogDir       string `env:"PHONEBOOK_LOG_DIR"`
	StrictUpdate bool   `env:"PHONEBOOK_STRICT_UPDATE" envDefault:"false"`

	// Command-line only
	Browse      bool
	ShowVersion bool
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the environment into a new Config. An unset or empty
// PHONEBOOK_FILE means DefaultDataFile.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if cfg.DataFile == "" {
		cfg.DataFile = DefaultDataFile
	}
	return cfg, nil
}

// RegisterFlags binds command-line flags to c. The current field values
// (usually from the environment) become the flag defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.DataFile, "file", c.DataFile, "Phone book file used by save and load (or set PHONEBOOK_FILE)")
	fs.StringVar(&c.LogDir, "log-dir", c.LogDir, "Directory for session logs (or set PHONEBOOK_LOG_DIR, default ~/.phonebook/logs)")
	fs.BoolVar(&c.StrictUpdate, "strict-update", c.StrictUpdate, "Validate name and phone number on update (or set PHONEBOOK_STRICT_UPDATE)")
	fs.BoolVar(&c.Browse, "browse", c.Browse, "Open the phone book file in the read-only browser")
	fs.BoolVar(&c.ShowVersion, "version", c.ShowVersion, "Show version and exit")
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.DataFile == "" {
		return fmt.Errorf("data file is required. Set PHONEBOOK_FILE or use -file")
	}

	info, err := os.Stat(c.DataFile)
	if err == nil && info.IsDir() {
		return fmt.Errorf("data file '%s' is a directory", c.DataFile)
	}

	return nil
}
