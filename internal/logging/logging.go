// Package logging builds the process-wide slog logger. Records are rendered
// by charmbracelet/log so CLI output matches the rest of the charm stack.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/hashicorp/go-retryablehttp"
)

// ParseLevel maps a config string (debug, info, warn, error) to a charm
// level. An empty string means info.
func ParseLevel(s string) (charmlog.Level, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return charmlog.InfoLevel, nil
	}
	if s == "warning" {
		s = "warn"
	}
	lvl, err := charmlog.ParseLevel(s)
	if err != nil {
		return charmlog.InfoLevel, fmt.Errorf("invalid log level %q (expected debug, info, warn or error)", s)
	}
	return lvl, nil
}

// New returns a slog logger writing to w at the given level.
func New(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           lvl,
		ReportTimestamp: lvl == charmlog.DebugLevel,
		Prefix:          "backplan",
	})
	return slog.New(handler), nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// HTTPLogger adapts l for retryablehttp clients. retryablehttp logs every
// attempt at debug level; retries surface as warnings.
func HTTPLogger(l *slog.Logger, component string) retryablehttp.LeveledLogger {
	if l == nil {
		l = Discard()
	}
	return l.With("component", component)
}
