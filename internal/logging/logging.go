// Package logging configures the application logger.
package logging

import (
	"io"
	"log/slog"
)

// New creates a text slog.Logger writing to w. Verbose mode enables debug
// output, including per-tool-call diagnostics from the agent loop.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
