// =============================================================================
// Gensoft Converter - Logging
// =============================================================================
//
// Process-wide slog logger, configured once from the CLI flags and config.
//
// =============================================================================

package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Options selects the level and encoding of the process logger.
type Options struct {
	Level  string
	Format string // text or json
	Output io.Writer
}

var def atomic.Value

func init() {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	def.Store(slog.New(h))
}

// Configure replaces the process logger and makes it the slog default.
func Configure(opts Options) (*slog.Logger, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	cfg := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "text":
		h = slog.NewTextHandler(out, cfg)
	case "json":
		h = slog.NewJSONHandler(out, cfg)
	default:
		return nil, fmt.Errorf("invalid log format: %s", opts.Format)
	}

	logger := slog.New(h)
	def.Store(logger)
	slog.SetDefault(logger)
	return logger, nil
}

// ParseLevel maps debug, info, warn and error to slog levels. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", s)
	}
}

// L returns the process logger.
func L() *slog.Logger {
	l, _ := def.Load().(*slog.Logger)
	return l
}
