package poslist

import (
	"unsafe"
)

// Chunk is what a MatchesAllPosList needs from the chunk it covers.
type Chunk interface {
	Size() int
	IsFinalized() bool
}

// MatchesAllPosList names every row of one finalized chunk. Entry i is
// {chunkID, i}; no offsets are stored.
type MatchesAllPosList struct {
	chunk   Chunk
	chunkID ChunkID
}

// NewMatchesAllPosList panics with ErrPrecondition for a nil or unfinalized
// chunk and for InvalidChunkID.
func NewMatchesAllPosList(chunk Chunk, chunkID ChunkID) *MatchesAllPosList {
	if chunk == nil {
		fail(ErrPrecondition, "matches-all pos list over nil chunk")
	}
	if chunkID == InvalidChunkID {
		fail(ErrPrecondition, "matches-all pos list with invalid chunk id")
	}
	if !chunk.IsFinalized() {
		fail(ErrPrecondition, "matches-all pos list over mutable chunk %d", chunkID)
	}
	return &MatchesAllPosList{chunk: chunk, chunkID: chunkID}
}

func (l *MatchesAllPosList) Type() PosListType {
	return PosListTypeMatchesAll
}

func (l *MatchesAllPosList) Chunk() Chunk {
	return l.chunk
}

func (l *MatchesAllPosList) Size() int {
	return l.chunk.Size()
}

func (l *MatchesAllPosList) Empty() bool {
	return l.Size() == 0
}

func (l *MatchesAllPosList) Get(i int) RowID {
	checkIndex(i, l.Size())
	return RowID{ChunkID: l.chunkID, ChunkOffset: ChunkOffset(i)}
}

func (l *MatchesAllPosList) ReferencesSingleChunk() bool {
	return true
}

// MatchesAll is a property of its own. It implies ReferencesSingleChunk,
// not the other way round.
func (l *MatchesAllPosList) MatchesAll() bool {
	return true
}

func (l *MatchesAllPosList) CommonChunkID() ChunkID {
	if l.Empty() {
		fail(ErrPrecondition, "common chunk id of an empty pos list")
	}
	return l.chunkID
}

// ChunkID returns the covered chunk's id, also for an empty chunk.
func (l *MatchesAllPosList) ChunkID() ChunkID {
	return l.chunkID
}

func (l *MatchesAllPosList) MemoryUsage(MemoryUsageMode) int {
	return int(unsafe.Sizeof(*l))
}

func (l *MatchesAllPosList) Equal(other PosList) bool {
	return Equal(l, other)
}

func (l *MatchesAllPosList) Iter() Iterator {
	return Iterator{
		typ:     PosListTypeMatchesAll,
		idx:     -1,
		size:    l.Size(),
		chunkID: l.chunkID,
	}
}
