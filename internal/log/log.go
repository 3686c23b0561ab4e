package log

import (
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
)

type (
	Level  = charmlog.Level
	Styles = charmlog.Styles
)

const (
	DebugLevel = charmlog.DebugLevel
	InfoLevel  = charmlog.InfoLevel
	WarnLevel  = charmlog.WarnLevel
	ErrorLevel = charmlog.ErrorLevel
)

// Options represents logger configuration options
type Options struct {
	charmlog.Options
	Writer io.Writer
}

// DefaultOptions returns the default logger options
func DefaultOptions() *Options {
	return &Options{
		Options: charmlog.Options{
			Level:           InfoLevel,
			ReportTimestamp: true,
		},
		Writer: os.Stderr,
	}
}

type Option func(*Options)

func UseLevel(l Level) Option {
	return func(o *Options) {
		o.Level = l
	}
}

func UseOutput(w io.Writer) Option {
	return func(o *Options) {
		o.Writer = w
	}
}

func UsePrefix(prefix string) Option {
	return func(o *Options) {
		o.Prefix = prefix
	}
}

func UseReportTimestamp(report bool) Option {
	return func(o *Options) {
		o.ReportTimestamp = report
	}
}

// New creates a slog logger backed by a charmbracelet/log handler
func New(opts ...Option) *slog.Logger {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return slog.New(charmlog.NewWithOptions(o.Writer, o.Options))
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return New(UseOutput(io.Discard), UseLevel(ErrorLevel))
}

// ParseLevel converts a level name such as "debug" into a Level
func ParseLevel(s string) (Level, error) {
	return charmlog.ParseLevel(s)
}
