package poslist

import (
	"iter"
)

// Iterator walks any PosList in logical order. It is a small tagged union
// over the per-representation state and never allocates.
//
//	it := pl.Iter()
//	for it.Next() {
//		use(it.Index(), it.RowID())
//	}
type Iterator struct {
	typ     PosListType
	idx     int
	size    int
	rows    []RowID
	chunkID ChunkID
	offsets []ChunkOffset
	cur     RowID
}

func (it *Iterator) Next() bool {
	if it.idx+1 >= it.size {
		it.idx = it.size
		return false
	}
	it.idx++
	switch it.typ {
	case PosListTypeRowID:
		it.cur = it.rows[it.idx]
	case PosListTypeMatchesAll:
		it.cur = RowID{ChunkID: it.chunkID, ChunkOffset: ChunkOffset(it.idx)}
	case PosListTypeSingleChunk:
		it.cur = RowID{ChunkID: it.chunkID, ChunkOffset: it.offsets[it.idx]}
	default:
		fail(ErrUnknownPosList, "iterator over %v", it.typ)
	}
	return true
}

// RowID is the current entry. Valid after Next returned true.
func (it *Iterator) RowID() RowID {
	if it.idx < 0 || it.idx >= it.size {
		fail(ErrOutOfRange, "iterator position %d, size %d", it.idx, it.size)
	}
	return it.cur
}

// Index is the logical position of the current entry.
func (it *Iterator) Index() int {
	return it.idx
}

func (it *Iterator) Len() int {
	return it.size
}

// Remaining counts the entries Next has not yet produced.
func (it *Iterator) Remaining() int {
	if it.idx >= it.size {
		return 0
	}
	return it.size - it.idx - 1
}

// Reset restarts the iteration from the first entry.
func (it *Iterator) Reset() {
	it.idx = -1
	it.cur = RowID{}
}

// All yields (position, RowID) pairs of pl in order.
func All(pl PosList) iter.Seq2[int, RowID] {
	return func(yield func(int, RowID) bool) {
		ForEach(pl, yield)
	}
}
