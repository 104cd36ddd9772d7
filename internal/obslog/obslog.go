// Package obslog wraps charm.land/log/v2 with the logger constructors the
// engine and CLI use for structured progress logging: pkg/engine logs one
// line per stratum after the fixpoint run, and one when stratification
// fails or a budget is hit. Discarded head instantiations are reported as
// engine diagnostics, not logged. The
// teacher's own tracing (pkg/minikanren/wfs_trace.go) gates a bare
// log.Printf behind an env-var flag; this package keeps that same
// opt-in spirit but speaks structured key/value pairs instead of a
// formatted string, and is injected explicitly rather than read from the
// environment so evaluation stays pure per spec.md §5.
package obslog

import (
	"io"
	"os"

	charmlog "charm.land/log/v2"
)

// Logger is the subset of *charmlog.Logger the engine depends on.
type Logger = charmlog.Logger

// New builds a logger writing structured lines to w.
func New(w io.Writer) *Logger {
	return charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		Prefix:          "srl",
	})
}

// Discard is the default logger: every call is a no-op. Callers that
// want visibility into stratum/fixpoint progress pass their own Logger
// via engine.Options instead.
func Discard() *Logger {
	return New(io.Discard)
}

// Default returns a logger writing to stderr, for the CLI front-end.
func Default() *Logger {
	return New(os.Stderr)
}
