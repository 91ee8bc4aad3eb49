// Package logger wraps zerolog behind a process-wide instance so every
// package logs through the same configuration. Call Init once in main, then
// Get from anywhere.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options selects the level, format and destination of the process logger.
type Options struct {
	// Level names the minimum level to emit: trace, debug, info, warn,
	// error or fatal. Anything else falls back to info.
	Level string
	// Pretty switches from JSON lines to a coloured console format, which
	// is only meant for local development.
	Pretty bool
	// Output receives the log stream. Nil means os.Stdout.
	Output io.Writer
}

var (
	global zerolog.Logger
	once   sync.Once
	ready  bool
)

// Init builds the process logger from opts. Repeated calls are no-ops, the
// configuration of the first call wins.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		out := opts.Output
		if out == nil {
			out = os.Stdout
		}
		if opts.Pretty {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		}

		lvl := parseLevel(opts.Level)
		zerolog.SetGlobalLevel(lvl)

		global = zerolog.New(out).
			Level(lvl).
			With().
			Timestamp().
			Caller().
			Logger()

		ready = true
	})
	return global
}

// Get hands back the process logger. Calling it before Init is a programming
// error and panics.
func Get() zerolog.Logger {
	if !ready {
		panic("logger: Get() called before Init()")
	}
	return global
}

// Reset discards the current logger so Init can run again. Tests use this to
// capture output per case.
func Reset() {
	once = sync.Once{}
	global = zerolog.Logger{}
	ready = false
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}
