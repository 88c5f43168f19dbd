// Package arenaprom exports arena and hash table metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	lib := arenakit.NewLibrary(arenakit.WithMetricsCollector(arenaprom.New(reg)))
package arenaprom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hupe1980/arenakit"
)

const namespace = "arenakit"

// Collector implements arenakit.MetricsCollector with Prometheus metrics.
type Collector struct {
	allocs          prometheus.Counter
	allocBytes      prometheus.Counter
	paddingBytes    prometheus.Counter
	blocksAcquired  *prometheus.CounterVec
	blocksReleased  *prometheus.CounterVec
	blockBytes      *prometheus.GaugeVec
	outOfMemory     *prometheus.CounterVec
	scopesEnded     prometheus.Counter
	bytesReclaimed  prometheus.Counter
	tableGrowths    *prometheus.CounterVec
	tableGrowTime   prometheus.Histogram
	tableSlotsAfter prometheus.Gauge
}

var _ arenakit.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers its metrics with reg.
// A nil reg creates unregistered metrics.
func New(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		allocs: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "allocations_total",
			Help:      "Total arena allocations served.",
		}),
		allocBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "allocated_bytes_total",
			Help:      "Total bytes requested by arena allocations.",
		}),
		paddingBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "padding_bytes_total",
			Help:      "Total bytes lost to alignment padding.",
		}),
		blocksAcquired: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_acquired_total",
			Help:      "Total blocks obtained from backing providers.",
		}, []string{"provider"}),
		blocksReleased: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_released_total",
			Help:      "Total blocks handed back to backing providers.",
		}, []string{"provider"}),
		blockBytes: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "block_bytes",
			Help:      "Capacity of the blocks currently held by arenas.",
		}, []string{"provider"}),
		outOfMemory: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "out_of_memory_total",
			Help:      "Total failed block acquisitions.",
		}, []string{"provider"}),
		scopesEnded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scopes_ended_total",
			Help:      "Total scopes unwound.",
		}),
		bytesReclaimed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scope_reclaimed_bytes_total",
			Help:      "Total bytes reclaimed by ending scopes.",
		}),
		tableGrowths: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "table_growths_total",
			Help:      "Total hash table growth attempts.",
		}, []string{"status"}),
		tableGrowTime: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "table_growth_duration_seconds",
			Help:      "Time spent rehashing a hash table into a larger slot array.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		tableSlotsAfter: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "table_last_growth_slots",
			Help:      "Slot count requested by the most recent hash table growth.",
		}),
	}
}

// RecordAlloc implements arenakit.MetricsCollector.
func (c *Collector) RecordAlloc(size, padding int) {
	c.allocs.Inc()
	c.allocBytes.Add(float64(size))
	if padding > 0 {
		c.paddingBytes.Add(float64(padding))
	}
}

// RecordBlockAcquired implements arenakit.MetricsCollector.
func (c *Collector) RecordBlockAcquired(provider string, size int) {
	c.blocksAcquired.WithLabelValues(provider).Inc()
	c.blockBytes.WithLabelValues(provider).Add(float64(size))
}

// RecordBlockReleased implements arenakit.MetricsCollector.
func (c *Collector) RecordBlockReleased(provider string, size int) {
	c.blocksReleased.WithLabelValues(provider).Inc()
	c.blockBytes.WithLabelValues(provider).Sub(float64(size))
}

// RecordOutOfMemory implements arenakit.MetricsCollector.
func (c *Collector) RecordOutOfMemory(provider string, _ int) {
	c.outOfMemory.WithLabelValues(provider).Inc()
}

// RecordScopeEnd implements arenakit.MetricsCollector.
func (c *Collector) RecordScopeEnd(_, bytesReclaimed int) {
	c.scopesEnded.Inc()
	if bytesReclaimed > 0 {
		c.bytesReclaimed.Add(float64(bytesReclaimed))
	}
}

// RecordTableGrow implements arenakit.MetricsCollector.
func (c *Collector) RecordTableGrow(_, newSize int, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.tableGrowths.WithLabelValues(status).Inc()
	c.tableGrowTime.Observe(duration.Seconds())
	c.tableSlotsAfter.Set(float64(newSize))
}
