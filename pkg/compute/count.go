package compute

import (
	"github.com/daviszhen/poslist/pkg/poslist"
	"github.com/daviszhen/poslist/pkg/storage"
)

// CountByKey groups the rows of a reference segment by their rendered value.
// Nulls are grouped under "NULL".
func CountByKey(seg *storage.ReferenceSegment) map[string]int {
	ret := make(map[string]int)
	for _, val := range seg.Values() {
		ret[val.String()]++
	}
	return ret
}

// CountByChunk counts the referenced rows of each chunk. Null references are
// not counted.
func CountByChunk(pl poslist.PosList, chunkCount int) map[poslist.ChunkID]int {
	ret := make(map[poslist.ChunkID]int)
	split := poslist.SplitByChunkID(pl, chunkCount)
	for _, part := range split.Chunks {
		if len(part.Offsets) == 0 {
			continue
		}
		ret[part.ChunkID] = len(part.Offsets)
	}
	return ret
}
