// Copyright 2023-2024 daviszhen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package poslist holds the row-addressing structures that operators hand to
// each other: ordered lists of RowIDs naming which rows of which chunks are
// visible in an operator's output.
//
// Three representations share one contract. RowIDPosList stores every RowID.
// MatchesAllPosList names every row of one finalized chunk without storing
// any offsets. SingleChunkPosList walks an index's offset range inside one
// chunk. Generic code reaches the concrete type through Resolve and iterates
// through Iterator, so it never branches on the representation itself.
//
// A list is built by one goroutine and frozen before it is shared. Shared
// lists are read concurrently without locking. No read path mutates a list.
package poslist

type PosListType uint8

const (
	PosListTypeInvalid PosListType = iota
	PosListTypeRowID
	PosListTypeMatchesAll
	PosListTypeSingleChunk
)

func (t PosListType) String() string {
	switch t {
	case PosListTypeRowID:
		return "RowIDPosList"
	case PosListTypeMatchesAll:
		return "MatchesAllPosList"
	case PosListTypeSingleChunk:
		return "SingleChunkPosList"
	default:
		return "InvalidPosList"
	}
}

type MemoryUsageMode uint8

const (
	// MemoryUsageSampled may extrapolate from a sample of the data.
	MemoryUsageSampled MemoryUsageMode = iota
	// MemoryUsageFull accounts every byte.
	MemoryUsageFull
)

// PosList is the logical sequence of RowIDs an operator outputs.
type PosList interface {
	Type() PosListType

	Size() int
	Empty() bool

	// Get panics with ErrOutOfRange unless 0 <= i < Size().
	Get(i int) RowID

	// ReferencesSingleChunk reports whether every entry is guaranteed to
	// share one chunk id. It may be false even when they do.
	ReferencesSingleChunk() bool

	// CommonChunkID panics with ErrPrecondition when the list is empty or
	// not guaranteed to reference a single chunk.
	CommonChunkID() ChunkID

	MemoryUsage(mode MemoryUsageMode) int

	// Equal compares logical sequences regardless of representation.
	Equal(other PosList) bool

	Iter() Iterator
}

var (
	_ PosList = (*RowIDPosList)(nil)
	_ PosList = (*MatchesAllPosList)(nil)
	_ PosList = (*SingleChunkPosList)(nil)
)
