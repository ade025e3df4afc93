// Package log provides the structured logger shared by the checker, extension manager and CLI.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config captures options for building a logger.
type Config struct {
	Level  string    // optional log level ("debug", "info", etc.), defaults to "warn"
	Format string    // "console" or "json", defaults to "console"
	Output io.Writer // optional writer (defaults to os.Stderr)
}

// New builds a logger from cfg.
func New(cfg Config) (zerolog.Logger, error) {
	level := zerolog.WarnLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	writer := cfg.Output
	if writer == nil {
		writer = os.Stderr
	}

	switch cfg.Format {
	case "", FormatConsole:
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.Kitchen}
	case FormatJSON:
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", cfg.Format)
	}

	return zerolog.New(writer).Level(level).With().Timestamp().Logger(), nil
}

// WithLogger stores l in the context.
func WithLogger(ctx context.Context, l zerolog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return l.WithContext(ctx)
}

// FromContext returns the logger stored in ctx, or a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return zerolog.Ctx(ctx)
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(ctx context.Context, component string) *zerolog.Logger {
	l := FromContext(ctx).With().Str("component", component).Logger()
	return &l
}
