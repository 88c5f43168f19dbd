package arenakit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/time/rate"

	"github.com/hupe1980/arenakit/internal/resource"
)

// Library is the process-level context shared by arenas and tables: logger,
// metrics collector, memory budget and aggregated statistics.
//
// Construct one at process start, pass it to arenas via arena.WithLibrary,
// and Close it at shutdown. All methods are safe for concurrent use and
// treat a nil *Library as a silent no-op context.
type Library struct {
	logger  *Logger
	metrics MetricsCollector
	budget  *resource.Controller
	logLim  *rate.Limiter // failure logs only; counters are never limited

	liveBlocks  atomic.Int64
	liveBytes   atomic.Int64
	peakBytes   atomic.Int64
	allocs      atomic.Int64
	allocBytes  atomic.Int64
	oomCount    atomic.Int64
	scopesEnded atomic.Int64
	tableGrows  atomic.Int64
	suppressed  atomic.Int64

	closed atomic.Bool
}

// LibraryStats is a snapshot of the aggregated counters of a Library.
type LibraryStats struct {
	LiveBlocks  int64 // Blocks currently held by attached arenas
	LiveBytes   int64 // Capacity of those blocks
	PeakBytes   int64 // High-water mark of LiveBytes
	Allocs      int64 // Allocations served
	AllocBytes  int64 // Bytes requested by those allocations
	OutOfMemory int64 // Failed block acquisitions
	ScopesEnded int64 // Scopes unwound
	TableGrows  int64 // Hash table doublings
	Suppressed  int64 // Failure log lines dropped by the rate limit
}

// Option configures a Library.
type Option func(*Library)

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(lib *Library) {
		if l == nil {
			l = NoopLogger()
		}
		lib.logger = l
	}
}

// WithMetricsCollector sets the metrics collector. If nil is passed,
// NoopMetricsCollector is used.
func WithMetricsCollector(c MetricsCollector) Option {
	return func(lib *Library) {
		if c == nil {
			c = NoopMetricsCollector{}
		}
		lib.metrics = c
	}
}

// WithMemoryLimit caps the bytes held by all attached arenas. 0 = unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(lib *Library) {
		lib.budget = resource.NewController(resource.Config{MemoryLimitBytes: bytes})
	}
}

// Default rate of out-of-memory and growth failure log lines.
const (
	DefaultLogEvery = time.Second
	DefaultLogBurst = 10
)

// WithLogRateLimit limits out-of-memory and failed growth log lines to one
// per every, with bursts of up to burst lines. every <= 0 disables the
// limit. Counters and metrics always record every event.
func WithLogRateLimit(every time.Duration, burst int) Option {
	return func(lib *Library) {
		if every <= 0 {
			lib.logLim = rate.NewLimiter(rate.Inf, 0)
			return
		}
		lib.logLim = rate.NewLimiter(rate.Every(every), max(burst, 1))
	}
}

// NewLibrary creates a Library. Without options it logs nothing, collects
// no metrics and enforces no memory limit.
func NewLibrary(opts ...Option) *Library {
	lib := &Library{
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
		budget:  resource.NewController(resource.Config{}),
		logLim:  rate.NewLimiter(rate.Every(DefaultLogEvery), DefaultLogBurst),
	}
	for _, opt := range opts {
		opt(lib)
	}
	return lib
}

// NewLibraryFromConfig creates a Library from its configuration section.
// Options are applied after the configuration and take precedence.
func NewLibraryFromConfig(cfg LibraryConfig, opts ...Option) (*Library, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if cfg.MemoryLimit < 0 {
		return nil, fmt.Errorf("%w: memory_limit must not be negative", ErrInvalidConfig)
	}

	var logger *Logger
	switch cfg.LogFormat {
	case "", "text":
		logger = NewTextLogger(level)
	case "json":
		logger = NewJSONLogger(level)
	default:
		return nil, fmt.Errorf("%w: log_format %q", ErrInvalidConfig, cfg.LogFormat)
	}

	base := []Option{WithLogger(logger), WithMemoryLimit(int64(cfg.MemoryLimit))}
	return NewLibrary(append(base, opts...)...), nil
}

// Logger returns the library logger. Never nil.
func (l *Library) Logger() *Logger {
	if l == nil {
		return NoopLogger()
	}
	return l.logger
}

// Metrics returns the metrics collector. Never nil.
func (l *Library) Metrics() MetricsCollector {
	if l == nil {
		return NoopMetricsCollector{}
	}
	return l.metrics
}

// MemoryLimit returns the configured memory limit (0 if unlimited).
func (l *Library) MemoryLimit() int64 {
	if l == nil {
		return 0
	}
	return l.budget.MemoryLimit()
}

// AcquireBlock reserves budget for a block of size bytes.
// Returns ErrMemoryLimitExceeded if the limit would be exceeded.
func (l *Library) AcquireBlock(size int) error {
	if l == nil {
		return nil
	}
	return l.budget.AcquireMemory(int64(size))
}

// BlockAcquired records a block appended to an arena.
func (l *Library) BlockAcquired(arena, provider string, size, blocks int) {
	if l == nil {
		return
	}
	l.liveBlocks.Add(1)
	live := l.liveBytes.Add(int64(size))
	for {
		peak := l.peakBytes.Load()
		if live <= peak || l.peakBytes.CompareAndSwap(peak, live) {
			break
		}
	}
	l.metrics.RecordBlockAcquired(provider, size)
	l.logger.LogBlockAcquired(context.Background(), arena, size, blocks)
}

// BlockReleased records a block handed back to its provider and returns its
// budget.
func (l *Library) BlockReleased(arena, provider string, size, blocks int) {
	if l == nil {
		return
	}
	l.budget.ReleaseMemory(int64(size))
	l.liveBlocks.Add(-1)
	l.liveBytes.Add(-int64(size))
	l.metrics.RecordBlockReleased(provider, size)
	l.logger.LogBlockReleased(context.Background(), arena, size, blocks)
}

// OutOfMemory records a failed block acquisition.
func (l *Library) OutOfMemory(arena, provider string, requested int, err error) {
	if l == nil {
		return
	}
	l.oomCount.Add(1)
	l.metrics.RecordOutOfMemory(provider, requested)
	if l.allowLog() {
		l.logger.LogOutOfMemory(context.Background(), arena, provider, requested, err)
	}
}

// allowLog reports whether a failure log line may be written now and counts
// the ones that may not.
func (l *Library) allowLog() bool {
	if l.logLim.Allow() {
		return true
	}
	l.suppressed.Add(1)
	return false
}

// Alloc records a served allocation.
func (l *Library) Alloc(size, padding int) {
	if l == nil {
		return
	}
	l.allocs.Add(1)
	l.allocBytes.Add(int64(size))
	l.metrics.RecordAlloc(size, padding)
}

// ScopeEnded records an unwound scope.
func (l *Library) ScopeEnded(arena string, blocksFreed, bytesReclaimed int) {
	if l == nil {
		return
	}
	l.scopesEnded.Add(1)
	l.metrics.RecordScopeEnd(blocksFreed, bytesReclaimed)
	if blocksFreed > 0 {
		l.logger.LogScopeUnwound(context.Background(), arena, blocksFreed, bytesReclaimed)
	}
}

// TableGrew records a hash table growth attempt.
func (l *Library) TableGrew(oldSize, newSize, count int, d time.Duration, err error) {
	if l == nil {
		return
	}
	if err == nil {
		l.tableGrows.Add(1)
	}
	l.metrics.RecordTableGrow(oldSize, newSize, d, err)
	if err == nil || l.allowLog() {
		l.logger.LogTableGrow(context.Background(), oldSize, newSize, count, err)
	}
}

// Stats returns a snapshot of the aggregated counters.
func (l *Library) Stats() LibraryStats {
	if l == nil {
		return LibraryStats{}
	}
	return LibraryStats{
		LiveBlocks:  l.liveBlocks.Load(),
		LiveBytes:   l.liveBytes.Load(),
		PeakBytes:   l.peakBytes.Load(),
		Allocs:      l.allocs.Load(),
		AllocBytes:  l.allocBytes.Load(),
		OutOfMemory: l.oomCount.Load(),
		ScopesEnded: l.scopesEnded.Load(),
		TableGrows:  l.tableGrows.Load(),
		Suppressed:  l.suppressed.Load(),
	}
}

// Close tears the library down. It returns ErrLeakedBlocks if attached
// arenas still hold blocks. Close is idempotent; only the first call reports.
func (l *Library) Close() error {
	if l == nil || l.closed.Swap(true) {
		return nil
	}
	blocks, bytes := l.liveBlocks.Load(), l.liveBytes.Load()
	if blocks == 0 {
		return nil
	}
	l.logger.LogLeak(context.Background(), blocks, bytes)
	return fmt.Errorf("%w: %d blocks (%s) still live", ErrLeakedBlocks, blocks, humanize.IBytes(uint64(bytes)))
}

func (l *Library) String() string {
	s := l.Stats()
	return fmt.Sprintf(
		"Library{blocks: %d, live: %s, peak: %s, allocs: %d, oom: %d}",
		s.LiveBlocks,
		humanize.IBytes(uint64(max(s.LiveBytes, 0))),
		humanize.IBytes(uint64(max(s.PeakBytes, 0))),
		s.Allocs,
		s.OutOfMemory,
	)
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: log level %q", ErrInvalidConfig, s)
	}
}

