// Package logger provides the process-wide zerolog logger used by bump_version.
// Log lines go to stderr so that the generated changelog on stdout stays clean.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	SetOutput(os.Stderr)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	log = zerolog.New(output).With().Timestamp().Logger()
}

func SetDebug(enabled bool) {
	if enabled {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// Debugf adapts the logger to printf-style debug hooks such as git.SetDebugLogger.
func Debugf(format string, args ...any) {
	log.Debug().Msgf(format, args...)
}

func Info() *zerolog.Event {
	return log.Info()
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}
