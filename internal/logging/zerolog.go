package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts a zerolog.Logger to the Logger interface.
// The reference server uses it for JSON request logs.
type ZerologLogger struct {
	l zerolog.Logger
}

func NewZerologLogger(l zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{l: l}
}

// fields validates that args form key–value pairs. An odd trailing
// argument is dropped so zerolog never panics on malformed calls.
func fields(args []any) []any {
	if len(args)%2 != 0 {
		return args[:len(args)-1]
	}
	return args
}

func (z *ZerologLogger) Debug(ctx context.Context, msg string, args ...any) {
	z.l.Debug().Fields(fields(args)).Msg(msg)
}

func (z *ZerologLogger) Info(ctx context.Context, msg string, args ...any) {
	z.l.Info().Fields(fields(args)).Msg(msg)
}

func (z *ZerologLogger) Warn(ctx context.Context, msg string, args ...any) {
	z.l.Warn().Fields(fields(args)).Msg(msg)
}

func (z *ZerologLogger) Error(ctx context.Context, msg string, args ...any) {
	z.l.Error().Fields(fields(args)).Msg(msg)
}

func (z *ZerologLogger) With(args ...any) Logger {
	return &ZerologLogger{l: z.l.With().Fields(fields(args)).Logger()}
}
