package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"loud":    zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestLinesBounded(t *testing.T) {
	b := NewLines(3)
	for i := 0; i < 5; i++ {
		_, err := fmt.Fprintf(b, "line %d\n", i)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"line 2", "line 3", "line 4"}, b.Snapshot())

	_, _ = b.Write([]byte("a\nb\n"))
	assert.Equal(t, []string{"line 4", "a", "b"}, b.Snapshot())
}

func TestNewWritesFileAndConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tileviz.log")
	log, err := New(Options{Level: "warn", File: path, JSON: true, Buffer: 10})
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("texture failed", zap.String("wall", "front"))
	require.NoError(t, log.Close())

	lines := log.Lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "WARN")
	assert.Contains(t, lines[0], "texture failed")
	assert.Contains(t, lines[0], `"wall": "front"`)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"texture failed"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestLogEchoesInput(t *testing.T) {
	log := NewNop()
	log.Log("cmd room --width 3")
	lines := log.Lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "INFO cmd room --width 3")
}
