package arenakit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBasicMetricsCollector(t *testing.T) {
	var c BasicMetricsCollector

	c.RecordAlloc(100, 4)
	c.RecordAlloc(50, 0)
	c.RecordBlockAcquired(ProviderHeap, 4096)
	c.RecordBlockAcquired(ProviderHeap, 8192)
	c.RecordBlockReleased(ProviderHeap, 8192)
	c.RecordOutOfMemory(ProviderFixed, 10)
	c.RecordScopeEnd(1, 8192)

	s := c.GetStats()
	assert.Equal(t, int64(2), s.Allocs)
	assert.Equal(t, int64(150), s.AllocBytes)
	assert.Equal(t, int64(4), s.PaddingBytes)
	assert.Equal(t, int64(2), s.BlocksAcquired)
	assert.Equal(t, int64(1), s.BlocksReleased)
	assert.Equal(t, int64(4096), s.BlockBytesLive)
	assert.Equal(t, int64(1), s.OutOfMemory)
	assert.Equal(t, int64(1), s.ScopesEnded)
	assert.Equal(t, int64(1), s.ScopeBlocksFreed)
	assert.Zero(t, s.TableGrowAvgNano)

	c.RecordTableGrow(8, 16, time.Microsecond, nil)
	assert.Equal(t, int64(1000), c.GetStats().TableGrowAvgNano)
}

func TestNoopMetricsCollector(t *testing.T) {
	var c MetricsCollector = NoopMetricsCollector{}
	c.RecordAlloc(1, 1)
	c.RecordBlockAcquired(ProviderHeap, 1)
	c.RecordBlockReleased(ProviderHeap, 1)
	c.RecordOutOfMemory(ProviderHeap, 1)
	c.RecordScopeEnd(1, 1)
	c.RecordTableGrow(1, 2, 0, nil)
}
