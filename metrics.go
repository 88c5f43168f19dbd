package arenakit

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting allocator metrics.
// Implement this interface to integrate with monitoring systems like Prometheus
// (see the arenaprom package).
//
// Hooks are invoked synchronously on the allocating goroutine, so
// implementations must be cheap and safe for concurrent use.
type MetricsCollector interface {
	// RecordAlloc is called after each successful allocation.
	// size is the requested byte count, padding the alignment waste.
	RecordAlloc(size, padding int)

	// RecordBlockAcquired is called when an arena appends a new block.
	RecordBlockAcquired(provider string, size int)

	// RecordBlockReleased is called when a block is handed back to its provider.
	RecordBlockReleased(provider string, size int)

	// RecordOutOfMemory is called when a block could not be obtained.
	RecordOutOfMemory(provider string, requested int)

	// RecordScopeEnd is called after a scope is unwound.
	RecordScopeEnd(blocksFreed, bytesReclaimed int)

	// RecordTableGrow is called after each hash table growth attempt.
	RecordTableGrow(oldSize, newSize int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAlloc(int, int)                           {}
func (NoopMetricsCollector) RecordBlockAcquired(string, int)                {}
func (NoopMetricsCollector) RecordBlockReleased(string, int)                {}
func (NoopMetricsCollector) RecordOutOfMemory(string, int)                  {}
func (NoopMetricsCollector) RecordScopeEnd(int, int)                        {}
func (NoopMetricsCollector) RecordTableGrow(int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	Allocs           atomic.Int64
	AllocBytes       atomic.Int64
	PaddingBytes     atomic.Int64
	BlocksAcquired   atomic.Int64
	BlocksReleased   atomic.Int64
	BlockBytesLive   atomic.Int64
	OutOfMemory      atomic.Int64
	ScopesEnded      atomic.Int64
	ScopeBlocksFreed atomic.Int64
	TableGrows       atomic.Int64
	TableGrowErrors  atomic.Int64
	TableGrowNanos   atomic.Int64
}

// RecordAlloc implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAlloc(size, padding int) {
	b.Allocs.Add(1)
	b.AllocBytes.Add(int64(size))
	b.PaddingBytes.Add(int64(padding))
}

// RecordBlockAcquired implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBlockAcquired(_ string, size int) {
	b.BlocksAcquired.Add(1)
	b.BlockBytesLive.Add(int64(size))
}

// RecordBlockReleased implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBlockReleased(_ string, size int) {
	b.BlocksReleased.Add(1)
	b.BlockBytesLive.Add(-int64(size))
}

// RecordOutOfMemory implements MetricsCollector.
func (b *BasicMetricsCollector) RecordOutOfMemory(string, int) {
	b.OutOfMemory.Add(1)
}

// RecordScopeEnd implements MetricsCollector.
func (b *BasicMetricsCollector) RecordScopeEnd(blocksFreed, _ int) {
	b.ScopesEnded.Add(1)
	b.ScopeBlocksFreed.Add(int64(blocksFreed))
}

// RecordTableGrow implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTableGrow(_, _ int, duration time.Duration, err error) {
	b.TableGrows.Add(1)
	b.TableGrowNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.TableGrowErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		Allocs:           b.Allocs.Load(),
		AllocBytes:       b.AllocBytes.Load(),
		PaddingBytes:     b.PaddingBytes.Load(),
		BlocksAcquired:   b.BlocksAcquired.Load(),
		BlocksReleased:   b.BlocksReleased.Load(),
		BlockBytesLive:   b.BlockBytesLive.Load(),
		OutOfMemory:      b.OutOfMemory.Load(),
		ScopesEnded:      b.ScopesEnded.Load(),
		ScopeBlocksFreed: b.ScopeBlocksFreed.Load(),
		TableGrows:       b.TableGrows.Load(),
		TableGrowErrors:  b.TableGrowErrors.Load(),
		TableGrowAvgNano: b.getAvgGrowNanos(),
	}
}

func (b *BasicMetricsCollector) getAvgGrowNanos() int64 {
	count := b.TableGrows.Load()
	if count == 0 {
		return 0
	}
	return b.TableGrowNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	Allocs           int64
	AllocBytes       int64
	PaddingBytes     int64
	BlocksAcquired   int64
	BlocksReleased   int64
	BlockBytesLive   int64
	OutOfMemory      int64
	ScopesEnded      int64
	ScopeBlocksFreed int64
	TableGrows       int64
	TableGrowErrors  int64
	TableGrowAvgNano int64
}
