package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New creates an application logger; pretty selects the console writer.
func New(app, level string, pretty bool) zerolog.Logger {
	return NewWithWriter(os.Stderr, app, level, pretty)
}

// NewWithWriter creates an application logger writing to w.
func NewWithWriter(w io.Writer, app, level string, pretty bool) zerolog.Logger {
	output := w
	if pretty {
		output = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}
	return zerolog.New(output).Level(ParseLevel(level)).With().Timestamp().Str("app", app).Logger()
}

// ParseLevel parses a level name, info is used for empty or unknown names.
func ParseLevel(level string) zerolog.Level {
	if strings.TrimSpace(level) == "" {
		return zerolog.InfoLevel
	}
	ret, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || ret == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return ret
}
