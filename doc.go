// Package slotpool provides a deterministic, fixed-capacity slot pool for
// latency-sensitive workloads: simulation loops, game servers, and other
// real-time systems that must avoid heap churn for frequently created and
// destroyed short-lived objects.
//
// A pool owns a pre-sized collection of value slots. Each slot is
// independently markable as active or free and is reconstructed in place when
// released, so no allocation happens after the pool is built. Callers reserve
// a slot (by explicit index or "next free"), mutate the element through the
// returned pointer, and eventually release it back to the free set.
//
// # Architecture
//
// The module is a library core plus its operational surround:
//
//	pkg/slotpool    - Pool[T], the active-slot iterator, and generation-checked handles
//	pkg/sloterrors  - structured error taxonomy shared by all pool operations
//	pkg/logger      - zap-based structured logging for hosts of the pool
//	pkg/metrics     - Prometheus collectors tracking pool occupancy and traffic
//	pkg/config      - YAML configuration with environment variable substitution
//	internal/sim    - a particle simulation engine driving per-tick pool traffic
//	cmd/slotsim     - CLI for running the simulation and serving metrics
//
// # Quick Start
//
//	import "github.com/arenakit/slotpool/pkg/slotpool"
//
//	pool, err := slotpool.New[Enemy](128)
//	if err != nil {
//	    return err
//	}
//
//	enemy, idx, err := pool.UseNext()
//	if err != nil {
//	    // pool is full; drop the spawn
//	}
//	enemy.SpawnAt(position)
//
//	for _, e := range pool.Active() {
//	    e.Update(dt)
//	}
//
//	_ = pool.UnUse(idx) // release and reset the slot
//
// # Concurrency
//
// A pool is a single-owner data structure: it is not internally synchronized
// and supports exactly one logical mutator at a time. Concurrent access
// requires external mutual exclusion covering the whole read-modify-write
// span of each operation.
package slotpool
