package slotpool

import (
	"github.com/arenakit/slotpool/pkg/sloterrors"
)

// slot is one storage cell: the element value, its activation flag, and a
// generation counter bumped on every reconstruction. The value is always a
// fully initialized T, either a live object or a reset placeholder; there is
// never an observable gap where the slot holds no valid value.
type slot[T any] struct {
	value T
	inUse bool
	gen   uint64
}

// Stats holds cumulative traffic counters for a pool. Counters only ever
// increase; occupancy at a point in time comes from InUse and Size.
type Stats struct {
	// Activations counts successful Use/UseNext/UseNextReplace calls.
	Activations uint64 `json:"activations"`
	// Releases counts successful UnUse calls.
	Releases uint64 `json:"releases"`
	// Resets counts slot reconstructions from any operation.
	Resets uint64 `json:"resets"`
	// FullMisses counts next-free searches that found no free slot.
	FullMisses uint64 `json:"full_misses"`
	// Probes counts slots examined by next-free searches, successful or not.
	Probes uint64 `json:"probes"`
}

// Pool is a fixed-capacity collection of value slots. Capacity is set at
// construction and never changes; slots cycle between free and active via
// in-place reconstruction, never via allocation.
//
// A Pool is the unique owner of its storage and must not be copied.
// It is not safe for concurrent use; see the package documentation.
type Pool[T any] struct {
	slots   []slot[T]
	inUse   int
	nextIdx int // search cursor: best-effort hint, not authoritative state
	stats   Stats
}

// New creates a pool with the given capacity. Every slot starts free and
// holds the zero value of T. Capacity zero is legal and yields a pool that is
// permanently full.
func New[T any](capacity int) (*Pool[T], error) {
	return NewWithFactory[T](capacity, nil)
}

// NewWithFactory creates a pool whose slots are all initialized from factory
// at construction time. The factory runs once per slot and must not retain
// references into the pool; a nil factory is equivalent to New.
//
// The factory only shapes initial contents. Reconstruction without an
// explicit value (UnUse, Replace, UseNextReplace) always resets a slot to the
// zero value of T, never back to the factory's output; use the With variants
// to reset to a specific value.
func NewWithFactory[T any](capacity int, factory func() T) (*Pool[T], error) {
	if capacity < 0 {
		return nil, sloterrors.ErrInvalidCapacity
	}
	p := &Pool[T]{
		slots: make([]slot[T], capacity),
	}
	if factory != nil {
		for i := range p.slots {
			p.slots[i].value = factory()
		}
	}
	return p, nil
}

// Size returns the total number of slots. It is constant for the pool's
// lifetime regardless of activation traffic.
func (p *Pool[T]) Size() int {
	return len(p.slots)
}

// InUse returns the number of currently active slots, always in [0, Size()].
func (p *Pool[T]) InUse() int {
	return p.inUse
}

// Stats returns a snapshot of the pool's cumulative traffic counters.
func (p *Pool[T]) Stats() Stats {
	return p.stats
}

// IsInUse reports whether the slot at index is active. Out-of-range indices
// report false rather than failing, so callers can probe freely before
// deciding whether to call Use or Get.
func (p *Pool[T]) IsInUse(index int) bool {
	if index < 0 || index >= len(p.slots) {
		return false
	}
	return p.slots[index].inUse
}

// Use activates the slot at index without reconstructing it: the element
// keeps whatever value currently sits there. Returns a pointer to the
// element, valid until the slot's next structural operation.
//
// Fails with KindOutOfRange or KindAlreadyInUse; no state changes on failure.
func (p *Pool[T]) Use(index int) (*T, error) {
	if index < 0 || index >= len(p.slots) {
		return nil, sloterrors.ErrOutOfRange
	}
	if p.slots[index].inUse {
		return nil, sloterrors.ErrAlreadyInUse
	}
	p.slots[index].inUse = true
	p.inUse++
	p.stats.Activations++
	p.advanceCursor()
	return &p.slots[index].value, nil
}

// UseNext finds the next free slot and activates it without reconstruction.
// The search starts at the cursor and scans circularly through all slots, so
// recently freed slots near the last allocation point are reused first.
// Returns the element pointer and the index that was activated.
//
// Fails with KindFull when every slot is active.
func (p *Pool[T]) UseNext() (*T, int, error) {
	index, ok := p.findFree()
	if !ok {
		return nil, 0, sloterrors.ErrFull
	}
	p.slots[index].inUse = true
	p.inUse++
	p.stats.Activations++
	p.advanceCursor()
	return &p.slots[index].value, index, nil
}

// UseNextReplace finds the next free slot, reconstructs its element to the
// zero value, and activates it. The returned element is
// guaranteed to be freshly built, never stale data from a previous occupant.
// Search policy and the KindFull error match UseNext.
func (p *Pool[T]) UseNextReplace() (*T, int, error) {
	index, ok := p.findFree()
	if !ok {
		return nil, 0, sloterrors.ErrFull
	}
	p.reset(index)
	p.slots[index].inUse = true
	p.inUse++
	p.stats.Activations++
	p.advanceCursor()
	return &p.slots[index].value, index, nil
}

// UseNextReplaceWith is UseNextReplace with an explicit replacement value:
// the found slot's element is set to value before activation.
func (p *Pool[T]) UseNextReplaceWith(value T) (*T, int, error) {
	index, ok := p.findFree()
	if !ok {
		return nil, 0, sloterrors.ErrFull
	}
	p.resetTo(index, value)
	p.slots[index].inUse = true
	p.inUse++
	p.stats.Activations++
	p.advanceCursor()
	return &p.slots[index].value, index, nil
}

// Get returns a mutable pointer to the element at index if the slot is
// active. Safe alternative to At, which checks neither bounds nor usage.
//
// Fails with KindOutOfRange or KindNotInUse.
func (p *Pool[T]) Get(index int) (*T, error) {
	if index < 0 || index >= len(p.slots) {
		return nil, sloterrors.ErrOutOfRange
	}
	if !p.slots[index].inUse {
		return nil, sloterrors.ErrNotInUse
	}
	return &p.slots[index].value, nil
}

// Peek returns a copy of the element at index if the slot is active. The
// copy is the read-only counterpart of Get: mutating it never affects the
// pool.
func (p *Pool[T]) Peek(index int) (T, error) {
	var zero T
	if index < 0 || index >= len(p.slots) {
		return zero, sloterrors.ErrOutOfRange
	}
	if !p.slots[index].inUse {
		return zero, sloterrors.ErrNotInUse
	}
	return p.slots[index].value, nil
}

// At returns a pointer to the element at index with no activation check and
// only the runtime's bounds check: an out-of-range index panics instead of
// returning an error. It exists for hot-path access where validity was
// already established, e.g. immediately after UseNext.
func (p *Pool[T]) At(index int) *T {
	return &p.slots[index].value
}

// UnUse deactivates the active slot at index and reconstructs its element to
// the zero value. The reconstruction is part of the
// contract, not optional cleanup: freed slots never retain the freed
// object's prior mutated state.
//
// Fails with KindOutOfRange or KindAlreadyUnused; no state changes on failure.
func (p *Pool[T]) UnUse(index int) error {
	if index < 0 || index >= len(p.slots) {
		return sloterrors.ErrOutOfRange
	}
	if !p.slots[index].inUse {
		return sloterrors.ErrAlreadyUnused
	}
	p.reset(index)
	p.slots[index].inUse = false
	p.inUse--
	p.stats.Releases++
	return nil
}

// UnUseWith is UnUse with an explicit replacement value: the freed slot's
// element is set to value instead of the zero value.
func (p *Pool[T]) UnUseWith(index int, value T) error {
	if index < 0 || index >= len(p.slots) {
		return sloterrors.ErrOutOfRange
	}
	if !p.slots[index].inUse {
		return sloterrors.ErrAlreadyUnused
	}
	p.resetTo(index, value)
	p.slots[index].inUse = false
	p.inUse--
	p.stats.Releases++
	return nil
}

// Replace unconditionally reconstructs the element at index to the zero
// value and forces the slot free, regardless of its current activation
// state. It is
// the lower-level primitive behind UnUse and UseNextReplace, exposed for
// callers who want to force-reset a slot without activation bookkeeping
// checks.
//
// Fails with KindOutOfRange only; it always succeeds on a valid index.
func (p *Pool[T]) Replace(index int) error {
	if index < 0 || index >= len(p.slots) {
		return sloterrors.ErrOutOfRange
	}
	p.reset(index)
	p.release(index)
	return nil
}

// ReplaceWith is Replace with an explicit replacement value.
func (p *Pool[T]) ReplaceWith(index int, value T) error {
	if index < 0 || index >= len(p.slots) {
		return sloterrors.ErrOutOfRange
	}
	p.resetTo(index, value)
	p.release(index)
	return nil
}

// release forces the slot free, keeping the active count consistent when
// Replace lands on an active slot.
func (p *Pool[T]) release(index int) {
	if p.slots[index].inUse {
		p.slots[index].inUse = false
		p.inUse--
	}
}

// reset reconstructs the element at index to the zero value and bumps the
// slot generation, invalidating outstanding handles.
func (p *Pool[T]) reset(index int) {
	var zero T
	p.slots[index].value = zero
	p.slots[index].gen++
	p.stats.Resets++
}

// resetTo reconstructs the element at index to an explicit value.
func (p *Pool[T]) resetTo(index int, value T) {
	p.slots[index].value = value
	p.slots[index].gen++
	p.stats.Resets++
}

// findFree scans circularly from the cursor for a free slot. Returns the
// index and true, or false after a full unsuccessful scan.
func (p *Pool[T]) findFree() (int, bool) {
	n := len(p.slots)
	for i, pos := 0, p.nextIdx; i < n; i, pos = i+1, (pos+1)%n {
		p.stats.Probes++
		if !p.slots[pos].inUse {
			return pos, true
		}
	}
	p.stats.FullMisses++
	return 0, false
}

// advanceCursor moves the search cursor to the next known-free slot. A
// best-effort hint update: when the pool is full the cursor stays where it
// is, and the next search's full scan reports KindFull.
func (p *Pool[T]) advanceCursor() {
	n := len(p.slots)
	for i, pos := 0, p.nextIdx; i < n; i, pos = i+1, (pos+1)%n {
		if !p.slots[pos].inUse {
			p.nextIdx = pos
			return
		}
	}
}
