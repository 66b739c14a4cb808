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

package poslist

import (
	"fmt"
	"math"
	"unsafe"
)

type ChunkID uint32

type ChunkOffset uint32

const (
	InvalidChunkID     ChunkID     = math.MaxUint32
	InvalidChunkOffset ChunkOffset = math.MaxUint32
)

// RowID addresses one row of one chunk.
type RowID struct {
	ChunkID     ChunkID
	ChunkOffset ChunkOffset
}

// NullRowID stands for a row that does not exist, e.g. the null side of an
// outer join.
var NullRowID = RowID{ChunkID: InvalidChunkID, ChunkOffset: InvalidChunkOffset}

var RowIDSize = int(unsafe.Sizeof(RowID{}))

// IsNull reports whether r is NullRowID. A row with only one invalid half
// is not null; reading it fails the range check.
func (r RowID) IsNull() bool {
	return r == NullRowID
}

// Less orders by chunk id, then by offset.
func (r RowID) Less(o RowID) bool {
	if r.ChunkID != o.ChunkID {
		return r.ChunkID < o.ChunkID
	}
	return r.ChunkOffset < o.ChunkOffset
}

func (r RowID) String() string {
	if r == NullRowID {
		return "RowID(NULL)"
	}
	return fmt.Sprintf("RowID(%d,%d)", r.ChunkID, r.ChunkOffset)
}
