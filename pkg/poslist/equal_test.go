package poslist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqual_representationIndependent(t *testing.T) {
	lists := allRepresentations(3, 6)
	for _, a := range lists {
		for _, b := range lists {
			assert.True(t, a.Equal(b), "%v vs %v", a.Type(), b.Type())
			assert.True(t, b.Equal(a), "%v vs %v", b.Type(), a.Type())
			assert.True(t, Equal(a, b))
		}
	}
}

// Scenario F
func TestEqual_matchesAllVsRows(t *testing.T) {
	chunk := newTestChunk(3)
	ma := NewMatchesAllPosList(chunk, 6)
	rows := NewRowIDPosList(RowID{6, 0}, RowID{6, 1}, RowID{6, 2})
	assert.True(t, ma.Equal(rows))
	assert.True(t, rows.Equal(ma))

	rows.PushBack(RowID{6, 3})
	assert.False(t, ma.Equal(rows))
	assert.False(t, rows.Equal(ma))

	rows.Truncate(3)
	rows.Rows()[2] = RowID{6, 5}
	assert.False(t, ma.Equal(rows))
	assert.False(t, rows.Equal(ma))
}

func TestEqual_matchesAllPair(t *testing.T) {
	chunk := newTestChunk(4)
	a := NewMatchesAllPosList(chunk, 1)
	assert.True(t, a.Equal(NewMatchesAllPosList(chunk, 1)))
	//same logical rows through another chunk object
	assert.True(t, a.Equal(NewMatchesAllPosList(newTestChunk(4), 1)))
	assert.False(t, a.Equal(NewMatchesAllPosList(newTestChunk(5), 1)))
	assert.False(t, a.Equal(NewMatchesAllPosList(chunk, 2)))
	//both empty denote the same empty sequence
	assert.True(t, NewMatchesAllPosList(newTestChunk(0), 1).Equal(NewMatchesAllPosList(newTestChunk(0), 2)))
}

func TestEqual_differentChunks(t *testing.T) {
	a := allRepresentations(1, 4)
	b := allRepresentations(2, 4)
	for _, x := range a {
		for _, y := range b {
			assert.False(t, x.Equal(y))
			assert.False(t, y.Equal(x))
		}
	}
}

func TestEqual_emptyAndNil(t *testing.T) {
	postings := offsetsSeq(0, 2)
	empties := []PosList{
		NewRowIDPosList(),
		NewMatchesAllPosList(newTestChunk(0), 0),
		NewSingleChunkPosList(9, NewIndexIterator(postings, 1), NewIndexIterator(postings, 1)),
	}
	for _, a := range empties {
		for _, b := range empties {
			assert.True(t, Equal(a, b))
		}
		assert.False(t, Equal(a, nil))
		assert.False(t, Equal(nil, a))
	}
	assert.True(t, Equal(nil, nil))
}

func TestEqual_guaranteeIgnored(t *testing.T) {
	a := NewRowIDPosList(RowID{0, 0}, RowID{0, 1})
	b := NewRowIDPosList(RowID{0, 0}, RowID{0, 1})
	b.GuaranteeSingleChunk()
	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
}

// sizedChunk is a value type holding a slice, so it is not comparable.
type sizedChunk struct {
	sizes []int
}

func (c sizedChunk) Size() int         { return c.sizes[0] }
func (c sizedChunk) IsFinalized() bool { return true }

func TestEqual_matchesAllUncomparableChunk(t *testing.T) {
	a := NewMatchesAllPosList(sizedChunk{sizes: []int{3}}, 1)
	b := NewMatchesAllPosList(sizedChunk{sizes: []int{3}}, 1)
	assert.True(t, a.Equal(b))
	assert.True(t, Equal(b, a))

	other := NewMatchesAllPosList(sizedChunk{sizes: []int{3}}, 2)
	assert.False(t, a.Equal(other))
	shorter := NewMatchesAllPosList(sizedChunk{sizes: []int{2}}, 1)
	assert.False(t, a.Equal(shorter))

	emptyA := NewMatchesAllPosList(sizedChunk{sizes: []int{0}}, 1)
	emptyB := NewMatchesAllPosList(sizedChunk{sizes: []int{0}}, 4)
	assert.True(t, emptyA.Equal(emptyB))
}
