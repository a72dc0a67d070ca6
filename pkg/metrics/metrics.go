// Package metrics provides Prometheus metrics for slot pool usage.
//
// # Overview
//
// The metrics package provides:
//   - Prometheus-compatible metrics collection
//   - Pre-defined metrics for pool occupancy and churn
//   - An Observer that publishes pool counter deltas per tick
//   - Automatic metric registration
//
// # Basic Usage
//
//	metrics.PoolCapacity.WithLabelValues("particles").Set(float64(pool.Size()))
//
//	obs := metrics.NewObserver("particles", pool.Stats())
//	for tick := 0; tick < ticks; tick++ {
//	    step(pool)
//	    obs.Observe(pool)
//	}
//
//	timer := metrics.NewTimer("tick")
//	step(pool)
//	metrics.TickDuration.Observe(float64(timer.Stop().Nanoseconds()))
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/arenakit/slotpool/pkg/slotpool"
)

var (
	// PoolCapacity reports the fixed slot count of each pool.
	// Labels: pool (pool name)
	PoolCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "slotpool_capacity",
			Help: "Fixed number of slots in the pool",
		},
		[]string{"pool"},
	)

	// SlotsInUse reports the current number of active slots.
	// Labels: pool (pool name)
	SlotsInUse = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "slotpool_slots_in_use",
			Help: "Number of slots currently in use",
		},
		[]string{"pool"},
	)

	// Activations counts slot reservations.
	// Labels: pool (pool name)
	Activations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slotpool_activations_total",
			Help: "Total number of slot activations",
		},
		[]string{"pool"},
	)

	// Releases counts slot releases back to the free set.
	// Labels: pool (pool name)
	Releases = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slotpool_releases_total",
			Help: "Total number of slot releases",
		},
		[]string{"pool"},
	)

	// FullMisses counts reservation attempts rejected because no slot was free.
	// Labels: pool (pool name)
	FullMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slotpool_full_total",
			Help: "Total number of reservations rejected on a full pool",
		},
		[]string{"pool"},
	)

	// FreeSearchProbes tracks how many slots the circular free-slot search
	// visits per tick. A rising distribution means the pool is fragmenting.
	FreeSearchProbes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "slotpool_free_search_probes",
			Help:    "Slots visited by the free-slot search per observation window",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128, 256, 1024},
		},
		[]string{"pool"},
	)

	// TickDuration tracks the distribution of simulation tick durations in
	// nanoseconds. Buckets are tuned for in-memory per-tick work.
	TickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "slotpool_tick_duration_nanoseconds",
			Help: "Simulation tick duration in nanoseconds",
			Buckets: []float64{
				1000,  // 1μs - Trivial ticks
				10000, // 10μs - Small pools
				1e5,   // 100μs - Typical pools
				1e6,   // 1ms - Large pools
				1e7,   // 10ms - Heavy per-slot work
				1e8,   // 100ms - Pathological ticks
			},
		},
	)
)

// Timer provides a simple timing mechanism for measuring operation durations.
// It captures the start time on creation and calculates elapsed time on stop.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
// The name parameter is for identification in logs or metrics.
//
// Example:
//
//	timer := metrics.NewTimer("tick")
//	step(pool)
//	duration := timer.Stop()
//	logger.Info("tick done", zap.Duration("duration", duration))
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Stop stops the timer and returns the elapsed duration since creation.
// The timer can be stopped multiple times, each returning the total
// elapsed time since creation.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// Observer publishes a pool's counters to Prometheus between observations.
// Counters in slotpool.Stats are cumulative, so the observer keeps the last
// snapshot and emits deltas. Not safe for concurrent use; observe from the
// goroutine that owns the pool.
type Observer struct {
	pool string
	last slotpool.Stats
}

// NewObserver creates an observer for a named pool. The stats parameter is
// the pool's current snapshot, used as the delta baseline.
func NewObserver(pool string, stats slotpool.Stats) *Observer {
	return &Observer{pool: pool, last: stats}
}

// ObserveCounters publishes the counter deltas since the previous call and
// stores the new snapshot.
func (o *Observer) ObserveCounters(stats slotpool.Stats) {
	Activations.WithLabelValues(o.pool).Add(float64(stats.Activations - o.last.Activations))
	Releases.WithLabelValues(o.pool).Add(float64(stats.Releases - o.last.Releases))
	FullMisses.WithLabelValues(o.pool).Add(float64(stats.FullMisses - o.last.FullMisses))
	FreeSearchProbes.WithLabelValues(o.pool).Observe(float64(stats.Probes - o.last.Probes))
	o.last = stats
}

// ObservePool publishes both the occupancy gauges and the counter deltas for
// a pool in one call.
func ObservePool[T any](o *Observer, p *slotpool.Pool[T]) {
	PoolCapacity.WithLabelValues(o.pool).Set(float64(p.Size()))
	SlotsInUse.WithLabelValues(o.pool).Set(float64(p.InUse()))
	o.ObserveCounters(p.Stats())
}
