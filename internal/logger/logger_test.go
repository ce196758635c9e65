package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"trace":   zapcore.DebugLevel,
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

// TestLevelFromEnv reads the override from the environment.
func TestLevelFromEnv(t *testing.T) {
	t.Setenv(LevelEnvVariable, "debug")

	lvl, ok := LevelFromEnv()
	require.True(t, ok)
	require.Equal(t, zapcore.DebugLevel, lvl)

	t.Setenv(LevelEnvVariable, "loud")

	_, ok = LevelFromEnv()
	require.False(t, ok)
}

// TestContextLogger checks that named loggers and fields travel with the context.
func TestContextLogger(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)

	ctx := ToContext(context.Background(), zap.New(core).Sugar())
	ctx = WithName(ctx, "fetch")
	ctx = WithKV(ctx, "attempt", 1)

	InfoKV(ctx, "Downloaded", "path", "/tmp/vscode.deb")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "fetch", entries[0].LoggerName)
	require.Equal(t, "Downloaded", entries[0].Message)

	fields := entries[0].ContextMap()
	require.EqualValues(t, 1, fields["attempt"])
	require.Equal(t, "/tmp/vscode.deb", fields["path"])
}

// TestFromContextFallsBackToGlobal returns the global logger for a bare context.
func TestFromContextFallsBackToGlobal(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), FromContext(context.Background()))
}

// TestSetLevel changes the shared level seen by the global logger.
func TestSetLevel(t *testing.T) {
	previous := Level()
	t.Cleanup(func() { SetLevel(previous) })

	SetLevel(zapcore.DebugLevel)
	require.Equal(t, zapcore.DebugLevel, Level())
	require.True(t, Logger().Desugar().Core().Enabled(zapcore.DebugLevel))
}
