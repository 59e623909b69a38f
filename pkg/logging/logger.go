// Package logging writes leveled, component-tagged log lines. Every
// component in one run shares a single session file so a whole
// phone book session can be read back in order.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger writes "[time] [component] [LEVEL] message" lines.
type Logger struct {
	component string
	out       *log.Logger
	mu        sync.Mutex

	file      *os.File // nil unless logging to the session file
	path      string
	closeOnce sync.Once
}

var (
	// sessionID names the session file; one per process
	sessionID     string
	sessionIDOnce sync.Once

	// logDir holds session files; empty means ~/.phonebook/logs
	logDir string

	initOnce sync.Once
	initErr  error
)

func getSessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

// SetLogDirectory changes where session files go. Only the first
// NewLogger call reads it; an empty dir keeps the default.
func SetLogDirectory(dir string) {
	if dir != "" {
		logDir = dir
	}
}

func initLogDirectory() error {
	initOnce.Do(func() {
		if logDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				initErr = fmt.Errorf("failed to get home directory: %w", err)
				return
			}
			logDir = filepath.Join(homeDir, ".phonebook", "logs")
		}

		if err := os.MkdirAll(logDir, 0750); err != nil {
			initErr = fmt.Errorf("failed to create log directory: %w", err)
		}
	})
	return initErr
}

// NewLogger opens (or appends to) <log dir>/<session-id>-phonebook.log.
//
// On failure it still returns a usable logger, writing to stderr, along
// with the error that caused the fallback.
func NewLogger(component string) (*Logger, error) {
	if err := initLogDirectory(); err != nil {
		return newStderrLogger(component, err), err
	}

	path := filepath.Join(logDir, getSessionID()+"-phonebook.log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		err = fmt.Errorf("failed to open log file: %w", err)
		return newStderrLogger(component, err), err
	}

	l := NewWriterLogger(component, file)
	l.file = file
	l.path = path
	return l, nil
}

// NewWriterLogger logs to w. The caller owns w; Close does not close it.
func NewWriterLogger(component string, w io.Writer) *Logger {
	return &Logger{
		component: component,
		out:       log.New(w, "", 0),
	}
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *Logger {
	return NewWriterLogger("nop", io.Discard)
}

func newStderrLogger(component string, cause error) *Logger {
	l := NewWriterLogger(component, os.Stderr)
	l.Warnf("file logging unavailable, using stderr: %v", cause)
	return l
}

func (l *Logger) write(level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	l.out.Printf("[%s] [%s] [%s] %s", timestamp, l.component, level, fmt.Sprintf(format, v...))
}

// Debugf logs at DEBUG.
func (l *Logger) Debugf(format string, v ...interface{}) { l.write("DEBUG", format, v...) }

// Infof logs at INFO.
func (l *Logger) Infof(format string, v ...interface{}) { l.write("INFO", format, v...) }

// Warnf logs at WARN.
func (l *Logger) Warnf(format string, v ...interface{}) { l.write("WARN", format, v...) }

// Errorf logs at ERROR.
func (l *Logger) Errorf(format string, v ...interface{}) { l.write("ERROR", format, v...) }

// Close closes the session file, if any. Safe to call more than once.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}
