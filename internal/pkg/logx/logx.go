/*
Package logx holds the process-wide zerolog logger of the library server.

Handlers and background code log through the package-level helpers, passing extra context as
alternating key/value pairs. Long-lived components such as the collaboration hub take a child
logger from Component and attach their own fields.
*/
package logx

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitGlobalLogger must run once at startup, before any other call in this package.
// Development builds log at debug level in console format on stderr; everything else logs
// JSON at info level on stdout. Entries carry a Unix timestamp and the caller.
func InitGlobalLogger(isDevelopment bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	base := zerolog.New(os.Stdout).Level(zerolog.InfoLevel)
	if isDevelopment {
		base = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			Level(zerolog.DebugLevel)
	}

	log.Logger = base.With().Timestamp().Caller().Logger()
}

// Logger exposes the global logger for code that builds events directly.
func Logger() *zerolog.Logger {
	return &log.Logger
}

// Component returns a child of the global logger tagged with the given component name.
func Component(name string) zerolog.Logger {
	return Logger().With().Str("component", name).Logger()
}

// emit adds err and the key/value pairs to ev and writes it. The skipped frame points the
// caller field at the code that called the exported helper.
func emit(ev *zerolog.Event, level string, err error, msg string, kv []any) {
	if len(kv)%2 != 0 {
		Logger().Warn().
			Str("log_level", level).
			Int("fields_count", len(kv)).
			Msgf("Dropping unpaired log fields for %q: %v", msg, kv)
		kv = nil
	}

	if err != nil {
		ev = ev.Err(err)
	}

	ev.Fields(kv).CallerSkipFrame(2).Msg(msg)
}

func Debug(msg string, kv ...any) {
	emit(Logger().Debug(), "debug", nil, msg, kv)
}

func Info(msg string, kv ...any) {
	emit(Logger().Info(), "info", nil, msg, kv)
}

func Warn(msg string, kv ...any) {
	emit(Logger().Warn(), "warn", nil, msg, kv)
}

// Error logs msg with err attached.
func Error(err error, msg string, kv ...any) {
	emit(Logger().Error(), "error", err, msg, kv)
}

// Fatal logs like Error and then exits the process with status 1.
func Fatal(err error, msg string, kv ...any) {
	emit(Logger().Fatal(), "fatal", err, msg, kv)
}
