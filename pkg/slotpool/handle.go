package slotpool

import "github.com/arenakit/slotpool/pkg/sloterrors"

// Handle is a generation-checked reference to a slot's element. Unlike the
// raw pointers returned by Use and Get, a Handle detects staleness: once the
// slot is reconstructed (UnUse, Replace, or a UseNextReplace landing on it),
// the handle's generation no longer matches and Get reports KindStaleHandle
// instead of silently serving the new occupant's data.
type Handle[T any] struct {
	pool  *Pool[T]
	index int
	gen   uint64
}

// Handle returns a generation-checked handle to the slot at index, bound to
// the slot's current occupant. The handle stays valid across Use/UnUse-free
// mutation of the element and goes stale on the slot's next reconstruction.
//
// Fails with KindOutOfRange; the slot need not be active, matching the
// totality of the underlying storage.
func (p *Pool[T]) Handle(index int) (Handle[T], error) {
	if index < 0 || index >= len(p.slots) {
		return Handle[T]{}, sloterrors.ErrOutOfRange
	}
	return Handle[T]{pool: p, index: index, gen: p.slots[index].gen}, nil
}

// Index returns the slot index the handle refers to.
func (h Handle[T]) Index() int {
	return h.index
}

// Valid reports whether the handle still refers to the occupant it was
// created for.
func (h Handle[T]) Valid() bool {
	return h.pool != nil && h.pool.slots[h.index].gen == h.gen
}

// Get returns the element the handle refers to, or KindStaleHandle if the
// slot has been reconstructed since the handle was created, or KindNotInUse
// if the slot is currently free.
func (h Handle[T]) Get() (*T, error) {
	if h.pool == nil || h.pool.slots[h.index].gen != h.gen {
		return nil, sloterrors.ErrStaleHandle
	}
	if !h.pool.slots[h.index].inUse {
		return nil, sloterrors.ErrNotInUse
	}
	return &h.pool.slots[h.index].value, nil
}
