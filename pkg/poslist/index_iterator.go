package poslist

import (
	"unsafe"
)

// IndexIterator is a position in an index's ordered sequence of chunk
// offsets. The index owns the sequence and must outlive every iterator and
// every SingleChunkPosList built from them. Iterators are values; moving one
// never affects another.
type IndexIterator struct {
	offsets []ChunkOffset
	pos     int
}

// NewIndexIterator points at offsets[pos]. pos == len(offsets) is the end.
func NewIndexIterator(offsets []ChunkOffset, pos int) IndexIterator {
	if pos < 0 || pos > len(offsets) {
		fail(ErrOutOfRange, "index iterator position %d, sequence length %d", pos, len(offsets))
	}
	return IndexIterator{offsets: offsets, pos: pos}
}

func (it IndexIterator) Pos() int {
	return it.pos
}

func (it IndexIterator) AtEnd() bool {
	return it.pos >= len(it.offsets)
}

// Offset dereferences the iterator.
func (it IndexIterator) Offset() ChunkOffset {
	checkIndex(it.pos, len(it.offsets))
	return it.offsets[it.pos]
}

func (it IndexIterator) Next() IndexIterator {
	return it.Advance(1)
}

func (it IndexIterator) Advance(n int) IndexIterator {
	return NewIndexIterator(it.offsets, it.pos+n)
}

// DistanceTo returns how many steps lead from it to o.
func (it IndexIterator) DistanceTo(o IndexIterator) int {
	if !it.sameSequence(o) {
		fail(ErrPrecondition, "distance between iterators of different index sequences")
	}
	return o.pos - it.pos
}

func (it IndexIterator) Equal(o IndexIterator) bool {
	return it.sameSequence(o) && it.pos == o.pos
}

func (it IndexIterator) sameSequence(o IndexIterator) bool {
	return unsafe.SliceData(it.offsets) == unsafe.SliceData(o.offsets) &&
		len(it.offsets) == len(o.offsets)
}

// window returns the offsets between it and end.
func (it IndexIterator) window(end IndexIterator) []ChunkOffset {
	return it.offsets[it.pos:end.pos]
}
