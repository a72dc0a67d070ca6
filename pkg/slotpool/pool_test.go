package slotpool_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenakit/slotpool/pkg/sloterrors"
	"github.com/arenakit/slotpool/pkg/slotpool"
)

// color is the element type used throughout the pool tests. Its zero value
// stands in for the "default constructed" state.
type color struct {
	R, G, B uint8
}

func TestNew(t *testing.T) {
	pool, err := slotpool.New[color](5)
	require.NoError(t, err)

	assert.Equal(t, 5, pool.Size())
	assert.Equal(t, 0, pool.InUse())

	for i := 0; i < 5; i++ {
		assert.False(t, pool.IsInUse(i))
		assert.Equal(t, color{}, *pool.At(i))
	}
}

func TestNewWithFactory(t *testing.T) {
	pool, err := slotpool.NewWithFactory(3, func() color {
		return color{R: 255, G: 128, B: 64}
	})
	require.NoError(t, err)

	assert.Equal(t, 3, pool.Size())
	for i := 0; i < 3; i++ {
		assert.Equal(t, color{R: 255, G: 128, B: 64}, *pool.At(i))
	}
}

func TestNew_NegativeCapacity(t *testing.T) {
	_, err := slotpool.New[color](-1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sloterrors.ErrInvalidCapacity))
}

func TestNew_ZeroCapacity(t *testing.T) {
	pool, err := slotpool.New[color](0)
	require.NoError(t, err)

	assert.Equal(t, 0, pool.Size())
	assert.False(t, pool.IsInUse(0))

	_, _, err = pool.UseNext()
	assert.True(t, errors.Is(err, sloterrors.ErrFull))
}

func TestUse_SpecificIndex(t *testing.T) {
	pool, err := slotpool.New[color](5)
	require.NoError(t, err)

	elem, err := pool.Use(2)
	require.NoError(t, err)
	require.NotNil(t, elem)
	assert.True(t, pool.IsInUse(2))
	assert.Equal(t, 1, pool.InUse())

	// Activating the same slot again must fail without state changes.
	_, err = pool.Use(2)
	assert.True(t, errors.Is(err, sloterrors.ErrAlreadyInUse))
	assert.Equal(t, 1, pool.InUse())

	_, err = pool.Use(4)
	require.NoError(t, err)
	assert.True(t, pool.IsInUse(4))
	assert.Equal(t, 2, pool.InUse())
}

func TestUse_KeepsExistingValue(t *testing.T) {
	pool, err := slotpool.New[color](3)
	require.NoError(t, err)

	// Seed slot 1 with a value, free it with an explicit replacement, then
	// activate it again: Use must not reconstruct.
	require.NoError(t, pool.ReplaceWith(1, color{R: 42}))
	elem, err := pool.Use(1)
	require.NoError(t, err)
	assert.Equal(t, color{R: 42}, *elem)
}

func TestUse_OutOfRange(t *testing.T) {
	pool, err := slotpool.New[color](3)
	require.NoError(t, err)

	_, err = pool.Use(4)
	assert.True(t, errors.Is(err, sloterrors.ErrOutOfRange))
	_, err = pool.Use(-1)
	assert.True(t, errors.Is(err, sloterrors.ErrOutOfRange))
	assert.Equal(t, 0, pool.InUse())
}

func TestUseNext_Sequential(t *testing.T) {
	pool, err := slotpool.New[color](5)
	require.NoError(t, err)

	for want := 0; want < 5; want++ {
		elem, idx, err := pool.UseNext()
		require.NoError(t, err)
		require.NotNil(t, elem)
		assert.Equal(t, want, idx)
		assert.True(t, pool.IsInUse(want))
	}
	assert.Equal(t, 5, pool.InUse())

	_, _, err = pool.UseNext()
	assert.True(t, errors.Is(err, sloterrors.ErrFull))
}

func TestUseNext_Overflow(t *testing.T) {
	pool, err := slotpool.New[color](1)
	require.NoError(t, err)

	_, idx, err := pool.UseNext()
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	_, _, err = pool.UseNext()
	require.Error(t, err)
	assert.Equal(t, sloterrors.KindFull, sloterrors.KindOf(err))
}

func TestUseNext_GapFilling(t *testing.T) {
	// Capacity 3: fill, free the middle slot, and the next search must
	// return it before anything else, with a reset element.
	pool, err := slotpool.New[color](3)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		elem, _, err := pool.UseNext()
		require.NoError(t, err)
		elem.R = uint8(10 * (i + 1))
	}
	_, _, err = pool.UseNext()
	require.True(t, errors.Is(err, sloterrors.ErrFull))

	require.NoError(t, pool.UnUse(1))
	assert.Equal(t, 2, pool.InUse())

	elem, idx, err := pool.UseNext()
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, color{}, *elem)
	assert.Equal(t, 3, pool.InUse())
}

func TestUseNext_CursorBias(t *testing.T) {
	// Freed low indices are not revisited until the cursor wraps: after
	// filling 0..2 and freeing 1, the search continues at 3 and 4 before
	// coming back around to 1.
	pool, err := slotpool.New[color](5)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, _, err := pool.UseNext()
		require.NoError(t, err)
	}
	require.NoError(t, pool.UnUse(1))

	_, idx, err := pool.UseNext()
	require.NoError(t, err)
	assert.Equal(t, 3, idx)

	_, idx, err = pool.UseNext()
	require.NoError(t, err)
	assert.Equal(t, 4, idx)

	_, idx, err = pool.UseNext()
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestGet(t *testing.T) {
	pool, err := slotpool.New[color](5)
	require.NoError(t, err)

	_, err = pool.Get(2)
	assert.True(t, errors.Is(err, sloterrors.ErrNotInUse))

	_, err = pool.Use(2)
	require.NoError(t, err)

	elem, err := pool.Get(2)
	require.NoError(t, err)
	elem.R = 100

	again, err := pool.Get(2)
	require.NoError(t, err)
	assert.Equal(t, uint8(100), again.R)

	_, err = pool.Get(10)
	assert.True(t, errors.Is(err, sloterrors.ErrOutOfRange))
}

func TestPeek(t *testing.T) {
	pool, err := slotpool.NewWithFactory(3, func() color {
		return color{R: 50, G: 100, B: 150}
	})
	require.NoError(t, err)

	_, _, err = pool.UseNext()
	require.NoError(t, err)

	snap, err := pool.Peek(0)
	require.NoError(t, err)
	assert.Equal(t, color{R: 50, G: 100, B: 150}, snap)

	// Peek returns a copy: mutating it must not touch the pool.
	snap.R = 0
	assert.Equal(t, uint8(50), pool.At(0).R)

	_, err = pool.Peek(1)
	assert.True(t, errors.Is(err, sloterrors.ErrNotInUse))
	_, err = pool.Peek(10)
	assert.True(t, errors.Is(err, sloterrors.ErrOutOfRange))
}

func TestIsInUse_Total(t *testing.T) {
	pool, err := slotpool.New[color](5)
	require.NoError(t, err)

	_, err = pool.Use(1)
	require.NoError(t, err)
	_, err = pool.Use(3)
	require.NoError(t, err)

	want := []bool{false, true, false, true, false}
	for i, w := range want {
		assert.Equal(t, w, pool.IsInUse(i), "index %d", i)
	}

	// Total by design: out-of-range probes never error.
	assert.False(t, pool.IsInUse(5))
	assert.False(t, pool.IsInUse(10))
	assert.False(t, pool.IsInUse(-1))
}

func TestUnUse_ResetsToZero(t *testing.T) {
	pool, err := slotpool.New[color](5)
	require.NoError(t, err)

	elem, err := pool.Use(2)
	require.NoError(t, err)
	elem.R = 200

	require.NoError(t, pool.UnUse(2))
	assert.False(t, pool.IsInUse(2))
	assert.Equal(t, 0, pool.InUse())

	// Re-activating the slot must expose the reset value, not the freed
	// occupant's mutated state.
	elem, err = pool.Use(2)
	require.NoError(t, err)
	assert.Equal(t, color{}, *elem)
}

func TestUnUse_ResetIgnoresFactory(t *testing.T) {
	// Reconstruction without an explicit value goes to the zero value even
	// when construction used a factory.
	pool, err := slotpool.NewWithFactory(3, func() color {
		return color{R: 100, G: 100, B: 100}
	})
	require.NoError(t, err)

	_, err = pool.Use(1)
	require.NoError(t, err)
	require.NoError(t, pool.UnUse(1))

	assert.Equal(t, color{}, *pool.At(1))
}

func TestUnUseWith(t *testing.T) {
	pool, err := slotpool.New[color](5)
	require.NoError(t, err)

	elem, err := pool.Use(1)
	require.NoError(t, err)
	elem.R, elem.G = 50, 60

	require.NoError(t, pool.UnUseWith(1, color{R: 10, G: 20, B: 30}))
	assert.False(t, pool.IsInUse(1))

	elem, err = pool.Use(1)
	require.NoError(t, err)
	assert.Equal(t, color{R: 10, G: 20, B: 30}, *elem)
}

func TestUnUse_IdempotentFailure(t *testing.T) {
	pool, err := slotpool.New[color](5)
	require.NoError(t, err)

	_, err = pool.Use(3)
	require.NoError(t, err)

	require.NoError(t, pool.UnUse(3))
	assert.True(t, errors.Is(pool.UnUse(3), sloterrors.ErrAlreadyUnused))
	assert.True(t, errors.Is(pool.UnUse(3), sloterrors.ErrAlreadyUnused))
	assert.True(t, errors.Is(pool.UnUseWith(3, color{R: 1}), sloterrors.ErrAlreadyUnused))
	assert.Equal(t, 0, pool.InUse())

	assert.True(t, errors.Is(pool.UnUse(9), sloterrors.ErrOutOfRange))
}

func TestReplace(t *testing.T) {
	pool, err := slotpool.NewWithFactory(5, func() color {
		return color{R: 100, G: 100, B: 100}
	})
	require.NoError(t, err)

	pool.At(2).R = 255

	require.NoError(t, pool.Replace(2))
	assert.False(t, pool.IsInUse(2))
	assert.Equal(t, color{}, *pool.At(2))
}

func TestReplaceWith(t *testing.T) {
	pool, err := slotpool.New[color](5)
	require.NoError(t, err)

	require.NoError(t, pool.ReplaceWith(3, color{R: 11, G: 22, B: 33}))
	assert.False(t, pool.IsInUse(3))
	assert.Equal(t, color{R: 11, G: 22, B: 33}, *pool.At(3))
}

func TestReplace_ForcesActiveSlotFree(t *testing.T) {
	// Replace is defined on any valid index regardless of activation state,
	// and the active count must stay consistent with the per-slot flags.
	pool, err := slotpool.New[color](3)
	require.NoError(t, err)

	_, err = pool.Use(0)
	require.NoError(t, err)
	_, err = pool.Use(1)
	require.NoError(t, err)
	assert.Equal(t, 2, pool.InUse())

	require.NoError(t, pool.Replace(0))
	assert.False(t, pool.IsInUse(0))
	assert.Equal(t, 1, pool.InUse())

	inUse := 0
	for i := 0; i < pool.Size(); i++ {
		if pool.IsInUse(i) {
			inUse++
		}
	}
	assert.Equal(t, pool.InUse(), inUse)
}

func TestReplace_OutOfRange(t *testing.T) {
	pool, err := slotpool.New[color](3)
	require.NoError(t, err)

	assert.True(t, errors.Is(pool.Replace(5), sloterrors.ErrOutOfRange))
	assert.True(t, errors.Is(pool.ReplaceWith(5, color{R: 1}), sloterrors.ErrOutOfRange))
}

func TestAt_UncheckedAccess(t *testing.T) {
	pool, err := slotpool.New[color](5)
	require.NoError(t, err)

	pool.At(0).R = 77
	pool.At(3).G = 88

	assert.Equal(t, uint8(77), pool.At(0).R)
	assert.Equal(t, uint8(88), pool.At(3).G)

	assert.Panics(t, func() {
		_ = pool.At(5)
	})
}

func TestUseNextReplace(t *testing.T) {
	pool, err := slotpool.NewWithFactory(3, func() color {
		return color{R: 50, G: 50, B: 50}
	})
	require.NoError(t, err)

	elem, idx, err := pool.UseNextReplace()
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.True(t, pool.IsInUse(0))
	// Freshly reconstructed, not the factory-built initial value.
	assert.Equal(t, color{}, *elem)

	_, _, err = pool.UseNextReplace()
	require.NoError(t, err)
	_, idx, err = pool.UseNextReplace()
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
	assert.Equal(t, 3, pool.InUse())

	_, _, err = pool.UseNextReplace()
	assert.True(t, errors.Is(err, sloterrors.ErrFull))
}

func TestUseNextReplaceWith(t *testing.T) {
	pool, err := slotpool.New[color](4)
	require.NoError(t, err)

	elem, idx, err := pool.UseNextReplaceWith(color{R: 1, G: 2, B: 3})
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Equal(t, color{R: 1, G: 2, B: 3}, *elem)

	elem, idx, err = pool.UseNextReplaceWith(color{R: 5, G: 6, B: 7})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, color{R: 5, G: 6, B: 7}, *elem)

	_, _, err = pool.UseNextReplaceWith(color{R: 9})
	require.NoError(t, err)
	_, _, err = pool.UseNextReplaceWith(color{R: 13})
	require.NoError(t, err)

	_, _, err = pool.UseNextReplaceWith(color{R: 99})
	assert.True(t, errors.Is(err, sloterrors.ErrFull))
}

func TestUseNextReplace_FillsGaps(t *testing.T) {
	pool, err := slotpool.New[color](5)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, _, err := pool.UseNext()
		require.NoError(t, err)
	}
	require.NoError(t, pool.UnUse(2))

	elem, idx, err := pool.UseNextReplaceWith(color{R: 99, G: 99, B: 99})
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
	assert.Equal(t, uint8(99), elem.R)
	assert.True(t, pool.IsInUse(2))
}

func TestSizeAndInUse(t *testing.T) {
	pool, err := slotpool.New[color](10)
	require.NoError(t, err)

	assert.Equal(t, 10, pool.Size())
	assert.Equal(t, 0, pool.InUse())

	for _, i := range []int{0, 5, 9} {
		_, err := pool.Use(i)
		require.NoError(t, err)
	}
	assert.Equal(t, 10, pool.Size())
	assert.Equal(t, 3, pool.InUse())

	require.NoError(t, pool.UnUse(5))
	assert.Equal(t, 10, pool.Size())
	assert.Equal(t, 2, pool.InUse())
}

func TestComplexLifecycle(t *testing.T) {
	pool, err := slotpool.New[color](5)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, _, err := pool.UseNext()
		require.NoError(t, err)
	}
	assert.Equal(t, 3, pool.InUse())

	pool.At(0).R = 10
	pool.At(1).R = 20
	pool.At(2).R = 30

	require.NoError(t, pool.UnUse(1))
	assert.Equal(t, 2, pool.InUse())

	// The cursor keeps moving forward before wrapping back to the gap.
	_, idx, err := pool.UseNext()
	require.NoError(t, err)
	assert.Equal(t, 3, idx)
	_, idx, err = pool.UseNext()
	require.NoError(t, err)
	assert.Equal(t, 4, idx)
	assert.Equal(t, 4, pool.InUse())

	elem, idx, err := pool.UseNext()
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.NotEqual(t, uint8(20), elem.R)

	require.NoError(t, pool.UnUse(0))
	require.NoError(t, pool.UnUse(4))
	assert.Equal(t, 3, pool.InUse())

	assert.False(t, pool.IsInUse(0))
	assert.True(t, pool.IsInUse(1))
	assert.True(t, pool.IsInUse(2))
	assert.True(t, pool.IsInUse(3))
	assert.False(t, pool.IsInUse(4))
}

func TestStats(t *testing.T) {
	pool, err := slotpool.New[color](2)
	require.NoError(t, err)

	_, _, err = pool.UseNext()
	require.NoError(t, err)
	_, _, err = pool.UseNext()
	require.NoError(t, err)
	_, _, err = pool.UseNext()
	require.True(t, errors.Is(err, sloterrors.ErrFull))

	require.NoError(t, pool.UnUse(0))

	stats := pool.Stats()
	assert.Equal(t, uint64(2), stats.Activations)
	assert.Equal(t, uint64(1), stats.Releases)
	assert.Equal(t, uint64(1), stats.FullMisses)
	assert.Equal(t, uint64(1), stats.Resets)
	assert.NotZero(t, stats.Probes)
}

// Count invariant: however operations interleave, InUse always equals the
// number of indices whose IsInUse probe reports true.
func TestCountInvariant(t *testing.T) {
	pool, err := slotpool.New[color](8)
	require.NoError(t, err)

	check := func() {
		t.Helper()
		n := 0
		for i := 0; i < pool.Size(); i++ {
			if pool.IsInUse(i) {
				n++
			}
		}
		require.Equal(t, pool.InUse(), n)
		require.LessOrEqual(t, pool.InUse(), pool.Size())
		require.GreaterOrEqual(t, pool.InUse(), 0)
	}

	ops := []func(){
		func() { _, _, _ = pool.UseNext() },
		func() { _, _ = pool.Use(3) },
		func() { _ = pool.UnUse(3) },
		func() { _, _, _ = pool.UseNextReplace() },
		func() { _ = pool.Replace(5) },
		func() { _ = pool.Replace(0) },
		func() { _ = pool.UnUse(0) },
		func() { _, _, _ = pool.UseNextReplaceWith(color{R: 7}) },
		func() { _, _ = pool.Use(20) },
		func() { _ = pool.UnUse(20) },
	}
	for round := 0; round < 4; round++ {
		for _, op := range ops {
			op()
			check()
		}
	}
}
