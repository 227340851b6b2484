package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns the process logger tagged with service.
// APP_ENV=dev (or development) uses a console writer and debug level.
func NewLogger(env, service string) zerolog.Logger {
	return newLogger(os.Stdout, env, service)
}

func newLogger(out io.Writer, env, service string) zerolog.Logger {
	level := zerolog.InfoLevel
	if env == "dev" || env == "development" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		level = zerolog.DebugLevel
	}
	return zerolog.New(out).Level(level).With().Timestamp().Str("service", service).Logger()
}
