package arenakit

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with arena-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithArena adds an arena name field to the logger.
func (l *Logger) WithArena(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("arena", name),
	}
}

// WithProvider adds a backing provider field to the logger.
func (l *Logger) WithProvider(kind string) *Logger {
	return &Logger{
		Logger: l.Logger.With("provider", kind),
	}
}

// LogBlockAcquired logs a new block being appended to an arena.
func (l *Logger) LogBlockAcquired(ctx context.Context, arena string, size, blocks int) {
	l.DebugContext(ctx, "block acquired",
		"arena", arena,
		"size", size,
		"blocks", blocks,
	)
}

// LogBlockReleased logs a block being handed back to its provider.
func (l *Logger) LogBlockReleased(ctx context.Context, arena string, size, blocks int) {
	l.DebugContext(ctx, "block released",
		"arena", arena,
		"size", size,
		"blocks", blocks,
	)
}

// LogOutOfMemory logs a failed block acquisition.
func (l *Logger) LogOutOfMemory(ctx context.Context, arena, provider string, requested int, err error) {
	l.ErrorContext(ctx, "arena out of memory",
		"arena", arena,
		"provider", provider,
		"requested", requested,
		"error", err,
	)
}

// LogScopeUnwound logs a scope end that released blocks.
func (l *Logger) LogScopeUnwound(ctx context.Context, arena string, blocksFreed, bytesReclaimed int) {
	l.DebugContext(ctx, "scope unwound",
		"arena", arena,
		"blocks_freed", blocksFreed,
		"bytes_reclaimed", bytesReclaimed,
	)
}

// LogTableGrow logs a hash table doubling.
func (l *Logger) LogTableGrow(ctx context.Context, oldSize, newSize, count int, err error) {
	if err != nil {
		l.WarnContext(ctx, "hash table growth failed",
			"old_size", oldSize,
			"new_size", newSize,
			"count", count,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "hash table grown",
			"old_size", oldSize,
			"new_size", newSize,
			"count", count,
		)
	}
}

// LogLeak logs blocks still held when a Library is closed.
func (l *Logger) LogLeak(ctx context.Context, blocks, bytes int64) {
	l.WarnContext(ctx, "library closed with live blocks",
		"blocks", blocks,
		"bytes", bytes,
	)
}
