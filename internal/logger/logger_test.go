package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		" INFO ":  zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"fatal":   zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok, s)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestNewSplitsStreams checks that warnings and errors land on the error stream only.
func TestNewSplitsStreams(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer

	l := New(zap.NewAtomicLevelAt(zapcore.DebugLevel), &out, &errOut)
	l.Info("fetching release")
	l.Errorw("asset missing", "pattern", "poof-0.5.2.tar.gz")

	require.Contains(t, out.String(), "fetching release")
	require.NotContains(t, out.String(), "asset missing")
	require.Contains(t, errOut.String(), "asset missing")
	require.Contains(t, errOut.String(), "poof-0.5.2.tar.gz")
	require.NotContains(t, errOut.String(), "fetching release")
}

// TestContextLogger ensures the scoped logger is carried by the context.
func TestContextLogger(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	l := New(zap.NewAtomicLevelAt(zapcore.InfoLevel), &out, &out)
	ctx := ToContext(context.Background(), l)
	ctx = WithName(ctx, "formula-updater")
	ctx = WithKV(ctx, "project", "poof")

	InfoKV(ctx, "Loaded configuration", "path", "configurations/poof.yaml")

	require.Contains(t, out.String(), "formula-updater")
	require.Contains(t, out.String(), "project")
	require.Contains(t, out.String(), "configurations/poof.yaml")
	require.Same(t, global, FromContext(context.Background()))
}
