// Package slotpool provides a deterministic, fixed-capacity pool of value
// slots with explicit lifetime control and no allocation after construction.
//
// The package provides:
//   - Generic type-safe pooling with Pool[T]
//   - Activation by explicit index (Use) or next-free search (UseNext)
//   - In-place reconstruction on release, so freed slots never leak the
//     previous occupant's state
//   - A forward iterator over active slots for per-tick bulk processing
//   - Generation-checked handles that detect stale access after a slot is
//     reconstructed
//   - Cumulative traffic counters for observability wiring
//
// Example usage:
//
//	pool, err := slotpool.NewWithFactory(128, func() Enemy {
//	    return Enemy{Health: 100}
//	})
//	if err != nil {
//	    return err
//	}
//
//	enemy, idx, err := pool.UseNext()
//	if err != nil {
//	    // slotpool.KindFull: no free slot, drop the spawn
//	}
//	enemy.SpawnAt(pos)
//
//	for _, e := range pool.Active() {
//	    e.Update(dt)
//	}
//
//	_ = pool.UnUse(idx)
//
// # Free-slot search
//
// UseNext and UseNextReplace scan circularly from a cursor that tracks the
// last known-free position rather than always scanning from index zero. Fill
// order is therefore roughly FIFO relative to the last successful allocation
// point, and amortized search cost stays low when slots are freed and reused
// in bursts.
//
// # Handle validity
//
// A pointer returned by Use, UseNext, UseNextReplace, or Get is valid only
// until the next structural operation (Replace, UnUse) on that slot. The pool
// does not track outstanding pointers; holding one across a reconstruction is
// a caller error. Use Handle for a checked alternative that detects staleness.
//
// # Thread safety
//
// Not thread-safe. A pool has exactly one logical owner at a time; concurrent
// use requires external locking around entire operations.
package slotpool
