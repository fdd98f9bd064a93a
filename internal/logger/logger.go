// Package logger builds the application's structured JSON logger.
//
// Entries are written one JSON object per line. Every entry carries a "ts"
// field rendered in the configured timezone, so request logs, migration logs
// and tracing bootstrap logs line up.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// tsHook stamps each event with the wall clock in loc.
type tsHook struct {
	loc *time.Location
}

func (h tsHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Str("ts", time.Now().In(h.loc).Format(time.RFC3339Nano))
}

// New returns a JSON logger writing to w.
func New(w io.Writer, loc *time.Location) zerolog.Logger {
	if loc == nil {
		loc = time.UTC
	}
	return zerolog.New(w).Hook(tsHook{loc: loc})
}

// Default returns a logger writing to stdout.
func Default(loc *time.Location) zerolog.Logger {
	return New(os.Stdout, loc)
}
