package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level slog.Level) (*SlogLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	h := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: level})
	return NewSlogLogger(slog.New(h)), buf
}

func TestSlogLogger_Levels(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		log  func(l *SlogLogger)
		want string
	}{
		{"info", func(l *SlogLogger) { l.Info(ctx, "hello", "k", "v") }, "level=INFO"},
		{"warn", func(l *SlogLogger) { l.Warn(ctx, "hello") }, "level=WARN"},
		{"error", func(l *SlogLogger) { l.Error(ctx, "hello") }, "level=ERROR"},
		{"debug", func(l *SlogLogger) { l.Debug(ctx, "hello") }, "level=DEBUG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, buf := newBufferLogger(slog.LevelDebug)
			tt.log(l)
			assert.Contains(t, buf.String(), tt.want)
			assert.Contains(t, buf.String(), "hello")
		})
	}
}

func TestSlogLogger_With(t *testing.T) {
	l, buf := newBufferLogger(slog.LevelInfo)

	child := l.With("component", "session")
	child.Info(context.Background(), "published")

	require.Contains(t, buf.String(), "component=session")
	require.Contains(t, buf.String(), "published")
}

func TestOrNop(t *testing.T) {
	require.NotNil(t, OrNop(nil))
	l, _ := newBufferLogger(slog.LevelInfo)
	assert.Equal(t, Logger(l), OrNop(l))
}
