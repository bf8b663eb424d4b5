package xlog_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xmanse/pkg/observability/xlog"
)

func build(t *testing.T, b *xlog.Builder) xlog.LoggerWithLevel {
	t.Helper()
	logger, cleanup, err := b.Build()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, cleanup()) })
	return logger
}

func TestLogger_BasicLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := build(t, xlog.New().SetOutput(&buf).SetLevel(xlog.LevelDebug))

	ctx := context.Background()
	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	logger.Warn(ctx, "warn message")
	logger.Error(ctx, "error message")

	out := buf.String()
	for _, want := range []string{"debug message", "info message", "warn message", "error message"} {
		assert.Contains(t, out, want)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := build(t, xlog.New().SetOutput(&buf).SetLevelString("warn"))

	ctx := context.Background()
	logger.Info(ctx, "hidden")
	logger.Warn(ctx, "shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.False(t, logger.Enabled(ctx, xlog.LevelInfo))
	assert.True(t, logger.Enabled(ctx, xlog.LevelError))
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := build(t, xlog.New().SetOutput(&buf).SetFormat("JSON"))

	logger.Info(context.Background(), "query served",
		xlog.Date(1990, 5, 15), xlog.Component("xmanse"), xlog.Fingerprint(0xabc))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "query served", rec["msg"])
	assert.Equal(t, "1990-05-15", rec[xlog.KeyDate])
	assert.Equal(t, "xmanse", rec[xlog.KeyComponent])
	assert.Equal(t, "0000000000000abc", rec[xlog.KeyFingerprint])
}

func TestLogger_DerivedShareLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := build(t, xlog.New().SetOutput(&buf))
	child := logger.With(slog.String("k", "v")).WithGroup("g")

	ctx := context.Background()
	child.Debug(ctx, "before")
	logger.SetLevel(xlog.LevelDebug)
	child.Debug(ctx, "after", slog.Int("n", 1))

	out := buf.String()
	assert.NotContains(t, out, "before")
	assert.Contains(t, out, "after")
	assert.Contains(t, out, "k=v")
	assert.Contains(t, out, "g.n=1")
	assert.Equal(t, xlog.LevelDebug, logger.GetLevel())

	assert.Same(t, logger, logger.With())
	assert.Same(t, logger, logger.WithGroup(""))
}

func TestLogger_FixedAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := build(t, xlog.New().SetOutput(&buf).SetAttrs(slog.String("service", "xmanse")))
	logger.Info(context.Background(), "hello")
	assert.Contains(t, buf.String(), "service=xmanse")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestLogger_OnError(t *testing.T) {
	var got []error
	logger := build(t, xlog.New().
		SetOutput(failingWriter{}).
		SetOnError(func(err error) { got = append(got, err) }))

	logger.Info(context.Background(), "lost")
	logger.Info(context.Background(), "lost again")

	assert.Len(t, got, 2)
	assert.Equal(t, uint64(2), xlog.ErrorCount(logger))
}

func TestLogger_OnErrorPanicIsContained(t *testing.T) {
	logger := build(t, xlog.New().
		SetOutput(failingWriter{}).
		SetOnError(func(error) { panic("boom") }))

	assert.NotPanics(t, func() { logger.Error(context.Background(), "x") })
	assert.Equal(t, uint64(2), xlog.ErrorCount(logger))
}

func TestLogger_NilContext(t *testing.T) {
	var buf bytes.Buffer
	logger := build(t, xlog.New().SetOutput(&buf))
	//nolint:staticcheck // nil ctx 应被容忍
	assert.NotPanics(t, func() { logger.Info(nil, "nil ctx") })
	assert.Contains(t, buf.String(), "nil ctx")
}

func TestLogger_AddSource(t *testing.T) {
	var buf bytes.Buffer
	logger := build(t, xlog.New().SetOutput(&buf).SetAddSource(true))
	logger.Info(context.Background(), "with source")
	assert.Contains(t, buf.String(), "xlog_test.go")
}

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name    string
		builder *xlog.Builder
		wantErr error
	}{
		{"unknown format", xlog.New().SetFormat("xml"), xlog.ErrUnknownFormat},
		{"unknown level", xlog.New().SetLevelString("verbose"), xlog.ErrUnknownLevel},
		{"nil output", xlog.New().SetOutput(nil), xlog.ErrNilOutput},
		{"empty rotation file", xlog.New().SetRotation(""), xlog.ErrEmptyFilename},
		{"bad size", xlog.New().SetRotation("x.log", xlog.WithMaxSize(0)), xlog.ErrInvalidRotation},
		{"no cleanup", xlog.New().SetRotation("x.log", xlog.WithMaxBackups(0), xlog.WithMaxAge(0)), xlog.ErrInvalidRotation},
		{"first error wins", xlog.New().SetFormat("xml").SetLevelString("verbose"), xlog.ErrUnknownFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.builder.Build()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBuilder_Rotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, cleanup, err := xlog.New().
		SetRotation(path, xlog.WithMaxSize(1), xlog.WithMaxBackups(2), xlog.WithCompress(false)).
		Build()
	require.NoError(t, err)

	logger.Info(context.Background(), "rotated output")
	require.NoError(t, cleanup())
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "rotated output"))
}

func TestDiscard(t *testing.T) {
	l := xlog.Discard()
	assert.NotPanics(t, func() { l.Error(context.Background(), "nothing") })
	assert.False(t, l.Enabled(context.Background(), xlog.LevelError))
}
