// Package logging wires zerolog the way the rest of this codebase expects:
// one structured, leveled logger per Graph instance, never a process-global
// logger, so tests that open many graphs in parallel don't interleave or
// race on log configuration.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns a zerolog.Logger writing to w (os.Stderr if w is nil) at the
// given level, with graph-scoped fields (component, instance) pre-bound.
func New(w io.Writer, level zerolog.Level, component string, instance string) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("component", component).
		Str("instance", instance).
		Logger()
}

// Nop returns a logger that discards everything, for tests and for code
// paths where the caller passed no logger.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
