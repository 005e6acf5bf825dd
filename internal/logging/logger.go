// Package logging defines the structured-logging interface shared by the
// client SDK and the reference server. Adapters exist for slog (client, CLI)
// and zerolog (server); tests use the no-op logger.
package logging

import "context"

// Logger is a context-aware, structured logger. Variadic args are
// interpreted as alternating key–value pairs:
//
//	log.Info(ctx, "token saved", "store", "sqlite")
type Logger interface {
	// Debug logs fine-grained diagnostic detail.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// OrNop returns l unchanged, or a no-op logger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return l
}
