package poslist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowIDPosList_construct(t *testing.T) {
	empty := NewRowIDPosList()
	assert.True(t, empty.Empty())
	assert.Equal(t, 0, empty.Size())

	filled := NewRowIDPosListWithSize(3, RowID{ChunkID: 1, ChunkOffset: 2})
	require.Equal(t, 3, filled.Size())
	for i := 0; i < 3; i++ {
		assert.Equal(t, RowID{ChunkID: 1, ChunkOffset: 2}, filled.Get(i))
	}

	rows := []RowID{{0, 0}, {0, 1}}
	moved := NewRowIDPosListFromSlice(rows)
	assert.Equal(t, rows, moved.Rows())

	copied := NewRowIDPosList(rows...)
	rows[0] = RowID{ChunkID: 9, ChunkOffset: 9}
	assert.Equal(t, RowID{ChunkID: 0, ChunkOffset: 0}, copied.Get(0))

	fromIter := NewRowIDPosListFromIter(NewMatchesAllPosList(newTestChunk(4), 3).Iter())
	assert.Equal(t, 4, fromIter.Size())
	assert.Equal(t, RowID{ChunkID: 3, ChunkOffset: 3}, fromIter.Get(3))

	requirePanicIs(t, ErrPrecondition, func() { NewRowIDPosListWithSize(-1, RowID{}) })
}

// Scenario B
func TestRowIDPosList_notSingleChunkByDefault(t *testing.T) {
	pl := NewRowIDPosList(RowID{0, 0}, RowID{0, 1}, RowID{1, 0})
	assert.False(t, pl.ReferencesSingleChunk())
	requirePanicIs(t, ErrPrecondition, func() { pl.CommonChunkID() })
}

// Scenario C
func TestRowIDPosList_guaranteeSingleChunk(t *testing.T) {
	pl := NewRowIDPosList(RowID{0, 0}, RowID{0, 1}, RowID{0, 2})
	pl.GuaranteeSingleChunk()
	assert.True(t, pl.ReferencesSingleChunk())
	assert.Equal(t, ChunkID(0), pl.CommonChunkID())
	assert.NoError(t, Verify(pl))
	for i := 0; i < pl.Size(); i++ {
		assert.Equal(t, pl.CommonChunkID(), pl.Get(i).ChunkID)
	}
}

// Scenario D
func TestRowIDPosList_emptyCommonChunkID(t *testing.T) {
	pl := NewRowIDPosList()
	pl.GuaranteeSingleChunk()
	assert.True(t, pl.ReferencesSingleChunk())
	requirePanicIs(t, ErrPrecondition, func() { pl.CommonChunkID() })
}

func TestRowIDPosList_wrongGuarantee(t *testing.T) {
	requirePanicIs(t, ErrInvariantViolation, func() {
		pl := NewRowIDPosList(RowID{0, 0}, RowID{1, 0})
		pl.GuaranteeSingleChunk()
	})

	SetVerification(false)
	pl := NewRowIDPosList(RowID{0, 0}, RowID{1, 0})
	pl.GuaranteeSingleChunk()
	//trusted without verification
	assert.True(t, pl.ReferencesSingleChunk())
	assert.Equal(t, ChunkID(0), pl.CommonChunkID())
	SetVerification(true)

	assert.ErrorIs(t, Verify(pl), ErrInvariantViolation)
	requirePanicIs(t, ErrInvariantViolation, func() { pl.ReferencesSingleChunk() })
}

func TestRowIDPosList_mutations(t *testing.T) {
	pl := NewRowIDPosList()
	pl.Reserve(16)
	assert.GreaterOrEqual(t, pl.Capacity(), 16)
	pl.PushBack(RowID{0, 1}, RowID{0, 3})
	pl.Insert(1, RowID{0, 2})
	pl.Insert(0, RowID{0, 0})
	pl.Insert(pl.Size(), RowID{0, 4})
	assert.Equal(t, []RowID{{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}}, pl.Rows())

	pl.Resize(7, RowID{0, 9})
	assert.Equal(t, 7, pl.Size())
	assert.Equal(t, RowID{0, 9}, pl.Get(6))
	pl.Resize(2, RowID{})
	assert.Equal(t, []RowID{{0, 0}, {0, 1}}, pl.Rows())

	pl.PushBack(RowID{0, 2})
	pl.Truncate(1)
	assert.Equal(t, []RowID{{0, 0}}, pl.Rows())
	pl.Clear()
	assert.True(t, pl.Empty())

	requirePanicIs(t, ErrOutOfRange, func() { pl.Insert(1, RowID{}) })
	requirePanicIs(t, ErrOutOfRange, func() { pl.Truncate(1) })
	requirePanicIs(t, ErrPrecondition, func() { pl.Resize(-1, RowID{}) })
}

func TestRowIDPosList_mutationKeepsGuarantee(t *testing.T) {
	pl := NewRowIDPosList(RowID{2, 0})
	pl.GuaranteeSingleChunk()
	pl.PushBack(RowID{2, 1})
	pl.Insert(0, RowID{2, 5})
	pl.Resize(5, RowID{2, 7})
	assert.Equal(t, ChunkID(2), pl.CommonChunkID())

	requirePanicIs(t, ErrInvariantViolation, func() { pl.PushBack(RowID{3, 0}) })
	requirePanicIs(t, ErrInvariantViolation, func() { pl.Insert(1, RowID{3, 0}) })
	requirePanicIs(t, ErrInvariantViolation, func() { pl.Resize(9, RowID{1, 0}) })
	assert.Equal(t, 5, pl.Size())

	empty := NewRowIDPosList()
	empty.GuaranteeSingleChunk()
	requirePanicIs(t, ErrInvariantViolation, func() { empty.PushBack(RowID{1, 0}, RowID{2, 0}) })
}

func TestRowIDPosList_freeze(t *testing.T) {
	pl := NewRowIDPosList(RowID{0, 0})
	assert.False(t, pl.Frozen())
	pl.Freeze()
	assert.True(t, pl.Frozen())

	requirePanicIs(t, ErrPrecondition, func() { pl.PushBack(RowID{0, 1}) })
	requirePanicIs(t, ErrPrecondition, func() { pl.Insert(0, RowID{0, 1}) })
	requirePanicIs(t, ErrPrecondition, func() { pl.Resize(3, RowID{}) })
	requirePanicIs(t, ErrPrecondition, func() { pl.Truncate(0) })
	requirePanicIs(t, ErrPrecondition, func() { pl.Clear() })
	requirePanicIs(t, ErrPrecondition, func() { pl.Reserve(10) })
	requirePanicIs(t, ErrPrecondition, func() { pl.GuaranteeSingleChunk() })
	assert.False(t, pl.ReferencesSingleChunk())
	//reads still work
	assert.Equal(t, RowID{0, 0}, pl.Get(0))
}

func TestRowIDPosList_getOutOfRange(t *testing.T) {
	pl := NewRowIDPosList(RowID{0, 0})
	requirePanicIs(t, ErrOutOfRange, func() { pl.Get(1) })
	requirePanicIs(t, ErrOutOfRange, func() { pl.Get(-1) })
}

func TestRowIDPosList_memoryUsage(t *testing.T) {
	for _, n := range []int{0, 1, 10, 1000} {
		pl := NewRowIDPosListWithSize(n, RowID{})
		pl.Reserve(2 * n)
		assert.Equal(t, n*RowIDSize, pl.MemoryUsage(MemoryUsageFull))
		assert.Equal(t, n*RowIDSize, pl.MemoryUsage(MemoryUsageSampled))
	}
}
