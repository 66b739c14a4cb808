package poslist

import (
	"slices"

	"go.uber.org/zap"

	"github.com/daviszhen/poslist/pkg/util"
)

// Materialize returns an unfrozen RowIDPosList holding the entries of pl.
// The single-chunk guarantee carries over. This is a producer-side step;
// no read path of a shared list materializes implicitly.
func Materialize(pl PosList) *RowIDPosList {
	var ret *RowIDPosList
	Resolve(pl, VisitorFuncs{
		RowIDFunc: func(l *RowIDPosList) {
			ret = &RowIDPosList{
				rows:        slices.Clone(l.rows),
				singleChunk: l.singleChunk,
			}
		},
		MatchesAllFunc: func(l *MatchesAllPosList) {
			util.PerformanceWarning("materializing a matches-all pos list",
				zap.Uint32("chunkID", uint32(l.chunkID)),
				zap.Int("rows", l.Size()))
			ret = NewRowIDPosListFromIter(l.Iter())
			ret.singleChunk = true
		},
		SingleChunkFunc: func(l *SingleChunkPosList) {
			util.PerformanceWarning("materializing a single chunk pos list",
				zap.Uint32("chunkID", uint32(l.chunkID)),
				zap.Int("rows", l.Size()))
			ret = NewRowIDPosListFromIter(l.Iter())
			ret.singleChunk = true
		},
	})
	return ret
}

// ChunkSplit is the part of a pos list that falls into one chunk.
// Positions[i] is the logical position of Offsets[i] in the split list.
type ChunkSplit struct {
	ChunkID   ChunkID
	Offsets   []ChunkOffset
	Positions []int
}

type SplitResult struct {
	Chunks        []ChunkSplit
	NullPositions []int
}

// SplitByChunkID groups the entries of pl by chunk id. Lists that reference
// a single chunk fill one bucket without looking at each entry's chunk id.
// Null entries are collected in NullPositions.
func SplitByChunkID(pl PosList, chunkCount int) SplitResult {
	if chunkCount < 0 {
		fail(ErrPrecondition, "negative chunk count %d", chunkCount)
	}
	ret := SplitResult{Chunks: make([]ChunkSplit, chunkCount)}
	for i := range ret.Chunks {
		ret.Chunks[i].ChunkID = ChunkID(i)
	}
	if pl.Empty() {
		return ret
	}
	if pl.ReferencesSingleChunk() {
		cid := pl.CommonChunkID()
		if int(cid) >= chunkCount {
			fail(ErrPrecondition, "chunk id %d, chunk count %d", cid, chunkCount)
		}
		offsets := Offsets(pl)
		positions := make([]int, len(offsets))
		for i := range positions {
			positions[i] = i
		}
		ret.Chunks[cid].Offsets = offsets
		ret.Chunks[cid].Positions = positions
		return ret
	}
	ForEach(pl, func(i int, row RowID) bool {
		if row.IsNull() {
			ret.NullPositions = append(ret.NullPositions, i)
			return true
		}
		if int(row.ChunkID) >= chunkCount {
			fail(ErrPrecondition, "chunk id %d, chunk count %d", row.ChunkID, chunkCount)
		}
		split := &ret.Chunks[row.ChunkID]
		split.Offsets = append(split.Offsets, row.ChunkOffset)
		split.Positions = append(split.Positions, i)
		return true
	})
	return ret
}
