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

package storage

import (
	"unsafe"

	"github.com/pkg/errors"

	"github.com/daviszhen/poslist/pkg/common"
	"github.com/daviszhen/poslist/pkg/poslist"
	"github.com/daviszhen/poslist/pkg/util"
)

type ColumnID uint16

const InvalidColumnID ColumnID = ^ColumnID(0)

var (
	ErrTypeMismatch   = errors.New("value type does not match column type")
	ErrNotNullable    = errors.New("null value in non-nullable column")
	ErrChunkFinalized = errors.New("chunk is finalized")
	ErrColumnCount    = errors.New("column count mismatch")
	ErrNoSuchColumn   = errors.New("no such column")
)

type ColumnDefinition struct {
	Name     string
	Type     common.LType
	Nullable bool
}

// ValueSegment stores the values of one column inside one chunk.
// Integral, date and decimal values live in i64.
type ValueSegment struct {
	typ      common.LType
	nullable bool
	count    int
	i64      []int64
	f64      []float64
	strs     []string
	bools    []bool
	mask     util.Bitmap
}

func NewValueSegment(typ common.LType, nullable bool) *ValueSegment {
	util.AssertFunc(typ.IsValid())
	return &ValueSegment{
		typ:      typ,
		nullable: nullable,
	}
}

func (seg *ValueSegment) Type() common.LType {
	return seg.typ
}

func (seg *ValueSegment) Nullable() bool {
	return seg.nullable
}

func (seg *ValueSegment) Size() int {
	return seg.count
}

func (seg *ValueSegment) Append(val *common.Value) error {
	if val == nil || val.IsNull {
		if !seg.nullable {
			return errors.Wrapf(ErrNotNullable, "%v column", seg.typ)
		}
		seg.mask.SetInvalid(uint64(seg.count))
		seg.appendZero()
		seg.count++
		return nil
	}
	if !val.Typ.Equal(seg.typ) {
		return errors.Wrapf(ErrTypeMismatch, "%v into %v column", val.Typ, seg.typ)
	}
	switch seg.typ.Id {
	case common.LTID_BOOLEAN:
		seg.bools = append(seg.bools, val.Bool)
	case common.LTID_DOUBLE:
		seg.f64 = append(seg.f64, val.F64)
	case common.LTID_VARCHAR:
		seg.strs = append(seg.strs, val.Str)
	default:
		seg.i64 = append(seg.i64, val.I64)
	}
	seg.count++
	return nil
}

func (seg *ValueSegment) appendZero() {
	switch seg.typ.Id {
	case common.LTID_BOOLEAN:
		seg.bools = append(seg.bools, false)
	case common.LTID_DOUBLE:
		seg.f64 = append(seg.f64, 0)
	case common.LTID_VARCHAR:
		seg.strs = append(seg.strs, "")
	default:
		seg.i64 = append(seg.i64, 0)
	}
}

func (seg *ValueSegment) IsNull(offset poslist.ChunkOffset) bool {
	return !seg.mask.RowIsValid(uint64(offset))
}

// Get returns the value at offset, or a null of the column type.
func (seg *ValueSegment) Get(offset poslist.ChunkOffset) *common.Value {
	if int(offset) >= seg.count {
		panic(errors.Wrapf(poslist.ErrOutOfRange, "segment offset %d, size %d", offset, seg.count))
	}
	if seg.IsNull(offset) {
		return common.NullValue(seg.typ)
	}
	ret := &common.Value{Typ: seg.typ}
	switch seg.typ.Id {
	case common.LTID_BOOLEAN:
		ret.Bool = seg.bools[offset]
	case common.LTID_DOUBLE:
		ret.F64 = seg.f64[offset]
	case common.LTID_VARCHAR:
		ret.Str = seg.strs[offset]
	default:
		ret.I64 = seg.i64[offset]
	}
	return ret
}

func (seg *ValueSegment) MemoryUsage(mode poslist.MemoryUsageMode) int {
	ret := int(unsafe.Sizeof(*seg)) + len(seg.mask.Bits)
	switch seg.typ.Id {
	case common.LTID_BOOLEAN:
		ret += cap(seg.bools)
	case common.LTID_DOUBLE:
		ret += cap(seg.f64) * 8
	case common.LTID_VARCHAR:
		ret += cap(seg.strs) * int(unsafe.Sizeof(""))
		ret += seg.stringBytes(mode)
	default:
		ret += cap(seg.i64) * 8
	}
	return ret
}

const stringSampleSize = 64

func (seg *ValueSegment) stringBytes(mode poslist.MemoryUsageMode) int {
	if len(seg.strs) == 0 {
		return 0
	}
	if mode == poslist.MemoryUsageFull || len(seg.strs) <= stringSampleSize {
		total := 0
		for _, s := range seg.strs {
			total += len(s)
		}
		return total
	}
	step := len(seg.strs) / stringSampleSize
	sampled := 0
	for i := 0; i < stringSampleSize; i++ {
		sampled += len(seg.strs[i*step])
	}
	return sampled * len(seg.strs) / stringSampleSize
}
