/**
 * @description
 * Structured logger for the Predictions backend.
 * Info and warning messages go to stdout, errors to stderr, so hosted log collectors
 * do not label routine output as failures.
 *
 * @dependencies
 * - github.com/rs/zerolog
 *
 * @notes
 * - Keeps a printf-style API so call sites read like plain log lines.
 * - Configure() switches to a human-readable console writer outside production.
 */

package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var (
	// InfoLogger writes info/debug/warn events to stdout
	InfoLogger zerolog.Logger
	// ErrorLogger writes error events to stderr
	ErrorLogger zerolog.Logger
)

func init() {
	InfoLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	ErrorLogger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// Configure sets the global level and output format.
// env "production" keeps JSON lines; anything else uses the console writer.
func Configure(level, env string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	var out, errOut io.Writer = os.Stdout, os.Stderr
	if env != "production" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
		errOut = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}
	InfoLogger = zerolog.New(out).With().Timestamp().Logger()
	ErrorLogger = zerolog.New(errOut).With().Timestamp().Logger()
}

// Debug logs a debug message to stdout
func Debug(format string, v ...interface{}) {
	InfoLogger.Debug().Msg(fmt.Sprintf(format, v...))
}

// Info logs an info message to stdout
func Info(format string, v ...interface{}) {
	InfoLogger.Info().Msg(fmt.Sprintf(format, v...))
}

// Warn logs a warning to stdout
func Warn(format string, v ...interface{}) {
	InfoLogger.Warn().Msg(fmt.Sprintf(format, v...))
}

// Error logs an error message to stderr
func Error(format string, v ...interface{}) {
	ErrorLogger.Error().Msg(fmt.Sprintf(format, v...))
}

// Fatal logs an error and exits
func Fatal(format string, v ...interface{}) {
	ErrorLogger.Fatal().Msg(fmt.Sprintf(format, v...))
}

// New creates a logger that writes to w, tagged with a component name
func New(w io.Writer, component string) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Str("component", component).Logger()
}
