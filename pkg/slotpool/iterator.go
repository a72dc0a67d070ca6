package slotpool

import "iter"

// Iterator is a forward cursor over one pool's active slots. It references
// the pool without owning it and visits elements in strictly increasing index
// order, transparently skipping free slots.
//
// Mutating the elements themselves during iteration is the primary use case;
// mutating the activation state of already-visited slots mid-iteration is
// unsupported. A fresh Begin call restarts traversal.
type Iterator[T any] struct {
	pool *Pool[T]
	pos  int
	elem *T
}

// Begin returns an iterator positioned at the first active slot, or at the
// end sentinel when no slot is active.
func (p *Pool[T]) Begin() Iterator[T] {
	it := Iterator[T]{pool: p}
	it.skipUnused()
	return it
}

// End returns the end sentinel: one past the last slot, referencing no
// element. All end iterators over a pool compare equal.
func (p *Pool[T]) End() Iterator[T] {
	return Iterator[T]{pool: p, pos: len(p.slots)}
}

// Value returns the element at the cursor. Only valid before the iterator
// reaches the end sentinel.
func (it *Iterator[T]) Value() *T {
	return it.elem
}

// Index returns the slot index at the cursor.
func (it *Iterator[T]) Index() int {
	return it.pos
}

// Next advances past the current slot and any following run of free slots.
func (it *Iterator[T]) Next() {
	it.pos++
	it.skipUnused()
}

// Equal reports whether two iterators reference the same element identity.
// An end iterator never equals a non-end iterator; a zero-valued Iterator
// compares equal to any end iterator.
func (it Iterator[T]) Equal(other Iterator[T]) bool {
	return it.elem == other.elem
}

func (it *Iterator[T]) skipUnused() {
	for it.pos < len(it.pool.slots) && !it.pool.slots[it.pos].inUse {
		it.pos++
	}
	if it.pos < len(it.pool.slots) {
		it.elem = &it.pool.slots[it.pos].value
	} else {
		it.elem = nil
	}
}

// Active returns a sequence of (index, element) pairs over the currently
// active slots in increasing index order, for use with range:
//
//	for i, e := range pool.Active() {
//	    e.Update(dt)
//	    _ = i
//	}
//
// The sequence is lazy and finite; it observes activation changes made after
// the ranged loop starts only for not-yet-visited indices, with the same
// caveats as Iterator.
func (p *Pool[T]) Active() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for it := p.Begin(); !it.Equal(p.End()); it.Next() {
			if !yield(it.Index(), it.Value()) {
				return
			}
		}
	}
}
