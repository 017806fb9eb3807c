// Package logging configures the process-wide slog logger
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/KirkDiggler/teyvat-catalog/internal/config"
	"github.com/KirkDiggler/teyvat-catalog/internal/errors"
)

// New builds a logger for cfg writing to w (stderr when nil) and installs it
// as the slog default.
func New(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, errors.InvalidArgumentf("invalid log level %q", cfg.Level)
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, errors.InvalidArgumentf("invalid log format %q", cfg.Format)
	}

	logger := slog.New(handler).With("service", "teyvat-catalog")
	slog.SetDefault(logger)
	return logger, nil
}
