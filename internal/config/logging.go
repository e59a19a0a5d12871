package config

import (
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// Stderr log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// LogOptions configures SetupLogger.
type LogOptions struct {
	// File receives JSON records in addition to stderr. Empty disables it.
	File   string
	Level  slog.Level
	Format string // LogFormatText (default) or LogFormatJSON
}

// LogOptions returns the logging part of the configuration.
func (c Config) LogOptions() LogOptions {
	return LogOptions{File: c.LogFile, Level: c.LogLevel, Format: c.LogFormat}
}

// SetupLogger builds the process logger and returns it with a cleanup that
// closes the log file. A log file that cannot be opened is reported and
// skipped.
func SetupLogger(opts LogOptions) (*slog.Logger, func() error) {
	noop := func() error { return nil }
	if opts.File == "" {
		return NewLogger(os.Stderr, nil, opts), noop
	}
	file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		l := NewLogger(os.Stderr, nil, opts)
		l.Error("failed to open log file, using stderr only", "error", err, "file", opts.File)
		return l, noop
	}
	return NewLogger(os.Stderr, file, opts), file.Close
}

// NewLogger fans records out to stderr, in opts.Format, and to file as JSON
// when file is non-nil. Credentials are redacted in both.
func NewLogger(stderr, file io.Writer, opts LogOptions) *slog.Logger {
	ho := &slog.HandlerOptions{Level: opts.Level, ReplaceAttr: redact}

	var console slog.Handler
	if strings.EqualFold(opts.Format, LogFormatJSON) {
		console = slog.NewJSONHandler(stderr, ho)
	} else {
		console = slog.NewTextHandler(stderr, ho)
	}
	if file == nil {
		return slog.New(console)
	}
	return slog.New(slogmulti.Fanout(console, slog.NewJSONHandler(file, ho)))
}

// redact masks attributes that carry credentials.
func redact(_ []string, a slog.Attr) slog.Attr {
	switch strings.ToLower(a.Key) {
	case "password", "pass", "token", "secret":
		return slog.String(a.Key, "[redacted]")
	}
	return a
}

// Component returns logger tagged with a component attribute, falling back
// to slog.Default() for a nil logger.
func Component(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("component", name)
}
