package poslist

import (
	"unsafe"
)

// SingleChunkPosList is the result of an index range scan inside one chunk.
// Entry i is {chunkID, offset at begin+i}. The offsets stay in the index.
type SingleChunkPosList struct {
	chunkID ChunkID
	begin   IndexIterator
	end     IndexIterator
}

// NewSingleChunkPosList panics with ErrPrecondition for InvalidChunkID and
// for iterators that do not delimit a forward range of one sequence.
func NewSingleChunkPosList(chunkID ChunkID, begin, end IndexIterator) *SingleChunkPosList {
	if chunkID == InvalidChunkID {
		fail(ErrPrecondition, "single chunk pos list with invalid chunk id")
	}
	if begin.DistanceTo(end) < 0 {
		fail(ErrPrecondition, "index range end %d before begin %d", end.pos, begin.pos)
	}
	return &SingleChunkPosList{chunkID: chunkID, begin: begin, end: end}
}

func (l *SingleChunkPosList) Type() PosListType {
	return PosListTypeSingleChunk
}

func (l *SingleChunkPosList) RangeBegin() IndexIterator {
	return l.begin
}

func (l *SingleChunkPosList) RangeEnd() IndexIterator {
	return l.end
}

func (l *SingleChunkPosList) Size() int {
	return l.begin.DistanceTo(l.end)
}

func (l *SingleChunkPosList) Empty() bool {
	return l.begin.Equal(l.end)
}

func (l *SingleChunkPosList) Get(i int) RowID {
	checkIndex(i, l.Size())
	return RowID{ChunkID: l.chunkID, ChunkOffset: l.begin.Advance(i).Offset()}
}

func (l *SingleChunkPosList) ReferencesSingleChunk() bool {
	return true
}

func (l *SingleChunkPosList) CommonChunkID() ChunkID {
	if l.Empty() {
		fail(ErrPrecondition, "common chunk id of an empty pos list")
	}
	return l.chunkID
}

func (l *SingleChunkPosList) ChunkID() ChunkID {
	return l.chunkID
}

func (l *SingleChunkPosList) MemoryUsage(MemoryUsageMode) int {
	return int(unsafe.Sizeof(*l))
}

func (l *SingleChunkPosList) Equal(other PosList) bool {
	return Equal(l, other)
}

func (l *SingleChunkPosList) Iter() Iterator {
	offsets := l.begin.window(l.end)
	return Iterator{
		typ:     PosListTypeSingleChunk,
		idx:     -1,
		size:    len(offsets),
		chunkID: l.chunkID,
		offsets: offsets,
	}
}
