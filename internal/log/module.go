package log

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/ipfans/fxlogger"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// NewLogger creates a configured zerolog.Logger instance
func NewLogger() zerolog.Logger {
	logWriter := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}

	level := zerolog.InfoLevel
	if os.Getenv("DEBUG") == "true" {
		level = zerolog.DebugLevel
	}

	return zerolog.New(logWriter).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()
}

// NewEventLogger routes fx lifecycle events through zerolog.
func NewEventLogger(logger zerolog.Logger) fxevent.Logger {
	return fxlogger.WithZerolog(logger)()
}

// WithRequestID returns a context carrying a child logger tagged with a
// fresh request id. Retrieve it with zerolog.Ctx.
func WithRequestID(ctx context.Context, logger zerolog.Logger) (context.Context, string) {
	id := uuid.NewString()
	child := logger.With().Str("request_id", id).Logger()
	return child.WithContext(ctx), id
}

// Module provides the application logger
func Module() fx.Option {
	return fx.Module(
		"log",
		fx.Provide(
			NewLogger,
		),
	)
}
