// Package logger sets up the application logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus with the file it writes to.
type Logger struct {
	*logrus.Logger
	file *os.File
}

// Options configures New.
type Options struct {
	// Dir receives app_<timestamp>.log. Empty disables the file.
	Dir     string
	Level   string
	Verbose bool
	// Console defaults to stderr.
	Console io.Writer
}

// New creates a logger writing to the console and to a per-run log file.
func New(opts Options) (*Logger, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = parsed
	}
	if opts.Verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	l := &Logger{Logger: log}
	if opts.Dir == "" {
		log.SetOutput(console)
		return l, nil
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	name := fmt.Sprintf("app_%s.log", time.Now().Format("20060102_150405"))
	f, err := os.OpenFile(filepath.Join(opts.Dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l.file = f
	log.SetOutput(io.MultiWriter(console, f))

	return l, nil
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &Logger{Logger: log}
}

// Path returns the log file path, or "" when logging to the console only.
func (l *Logger) Path() string {
	if l.file == nil {
		return ""
	}
	return l.file.Name()
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
