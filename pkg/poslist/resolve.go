package poslist

import (
	"slices"
)

// Visitor receives the concrete type of a PosList from Resolve.
type Visitor interface {
	VisitRowIDPosList(l *RowIDPosList)
	VisitMatchesAllPosList(l *MatchesAllPosList)
	VisitSingleChunkPosList(l *SingleChunkPosList)
}

// Resolve is the one place that branches on the representation of a
// PosList. A new representation needs a case here and nowhere else.
// Unknown implementations panic with ErrUnknownPosList.
func Resolve(pl PosList, v Visitor) {
	switch typed := pl.(type) {
	case *RowIDPosList:
		v.VisitRowIDPosList(typed)
	case *MatchesAllPosList:
		v.VisitMatchesAllPosList(typed)
	case *SingleChunkPosList:
		v.VisitSingleChunkPosList(typed)
	default:
		fail(ErrUnknownPosList, "%T", pl)
	}
}

// VisitorFuncs adapts plain functions to Visitor. Nil funcs are skipped.
type VisitorFuncs struct {
	RowIDFunc       func(*RowIDPosList)
	MatchesAllFunc  func(*MatchesAllPosList)
	SingleChunkFunc func(*SingleChunkPosList)
}

func (f VisitorFuncs) VisitRowIDPosList(l *RowIDPosList) {
	if f.RowIDFunc != nil {
		f.RowIDFunc(l)
	}
}

func (f VisitorFuncs) VisitMatchesAllPosList(l *MatchesAllPosList) {
	if f.MatchesAllFunc != nil {
		f.MatchesAllFunc(l)
	}
}

func (f VisitorFuncs) VisitSingleChunkPosList(l *SingleChunkPosList) {
	if f.SingleChunkFunc != nil {
		f.SingleChunkFunc(l)
	}
}

// ForEach calls fn for every entry in order until fn returns false.
// Each representation runs its own loop; no per-row dispatch happens.
func ForEach(pl PosList, fn func(i int, row RowID) bool) {
	Resolve(pl, VisitorFuncs{
		RowIDFunc: func(l *RowIDPosList) {
			for i, row := range l.rows {
				if !fn(i, row) {
					return
				}
			}
		},
		MatchesAllFunc: func(l *MatchesAllPosList) {
			n := l.Size()
			for i := 0; i < n; i++ {
				if !fn(i, RowID{ChunkID: l.chunkID, ChunkOffset: ChunkOffset(i)}) {
					return
				}
			}
		},
		SingleChunkFunc: func(l *SingleChunkPosList) {
			for i, off := range l.begin.window(l.end) {
				if !fn(i, RowID{ChunkID: l.chunkID, ChunkOffset: off}) {
					return
				}
			}
		},
	})
}

// Offsets returns the chunk offsets of a list that references a single
// chunk, in logical order. It panics with ErrPrecondition otherwise.
func Offsets(pl PosList) []ChunkOffset {
	if !pl.ReferencesSingleChunk() {
		fail(ErrPrecondition, "offsets of a pos list spanning several chunks")
	}
	var ret []ChunkOffset
	Resolve(pl, VisitorFuncs{
		RowIDFunc: func(l *RowIDPosList) {
			ret = make([]ChunkOffset, len(l.rows))
			for i, row := range l.rows {
				ret[i] = row.ChunkOffset
			}
		},
		MatchesAllFunc: func(l *MatchesAllPosList) {
			ret = make([]ChunkOffset, l.Size())
			for i := range ret {
				ret[i] = ChunkOffset(i)
			}
		},
		SingleChunkFunc: func(l *SingleChunkPosList) {
			ret = slices.Clone(l.begin.window(l.end))
		},
	})
	return ret
}
