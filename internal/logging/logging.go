// Package logging builds the zerolog loggers used by the program.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ParseLevel maps a config level name to a zerolog level. Unknown names
// fall back to info.
func ParseLevel(name string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// UseUTC makes every zerolog timestamp in the process UTC. Call it once
// from main before building loggers.
func UseUTC() {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}
}

// New returns a logger writing console format to out and, when file is not
// nil, the same lines without colors to file.
func New(out, file io.Writer, level string) zerolog.Logger {
	writers := []io.Writer{
		zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339},
	}
	if file != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        file,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(ParseLevel(level)).
		With().Timestamp().Logger()
}

// Every returns a logger that lets through the first event and then one in
// every n. n < 2 returns log unchanged.
func Every(log zerolog.Logger, n int) zerolog.Logger {
	if n < 2 {
		return log
	}
	return log.Sample(&zerolog.BasicSampler{N: uint32(n)})
}
