package arenakit

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(buf *bytes.Buffer, level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: level}))
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var m map[string]any
		require.NoError(t, dec.Decode(&m))
		out = append(out, m)
	}
	return out
}

func TestLogger_Events(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf, slog.LevelDebug)
	ctx := t.Context()

	l.LogBlockAcquired(ctx, "frame", 4096, 1)
	l.LogBlockReleased(ctx, "frame", 4096, 0)
	l.LogOutOfMemory(ctx, "frame", ProviderFixed, 100, errors.New("full"))
	l.LogScopeUnwound(ctx, "frame", 2, 9000)
	l.LogTableGrow(ctx, 8, 16, 6, nil)
	l.LogTableGrow(ctx, 16, 32, 12, errors.New("full"))
	l.LogLeak(ctx, 3, 12288)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 7)

	assert.Equal(t, "block acquired", lines[0]["msg"])
	assert.Equal(t, "DEBUG", lines[0]["level"])
	assert.Equal(t, "frame", lines[0]["arena"])
	assert.InDelta(t, 4096, lines[0]["size"], 0)

	assert.Equal(t, "ERROR", lines[2]["level"])
	assert.Equal(t, "fixed", lines[2]["provider"])
	assert.Equal(t, "full", lines[2]["error"])

	assert.InDelta(t, 9000, lines[3]["bytes_reclaimed"], 0)
	assert.Equal(t, "hash table grown", lines[4]["msg"])
	assert.Equal(t, "WARN", lines[5]["level"])
	assert.Equal(t, "library closed with live blocks", lines[6]["msg"])
}

func TestLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf, slog.LevelInfo)

	l.LogBlockAcquired(t.Context(), "a", 1, 1)
	assert.Zero(t, buf.Len())

	l.LogOutOfMemory(t.Context(), "a", ProviderHeap, 1, errors.New("x"))
	assert.NotZero(t, buf.Len())
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf, slog.LevelInfo).WithArena("frame").WithProvider(ProviderVirtual)
	l.Info("hello")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "frame", lines[0]["arena"])
	assert.Equal(t, "virtual", lines[0]["provider"])
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(t.Context(), slog.LevelError))
	l.LogLeak(t.Context(), 1, 1)
}
