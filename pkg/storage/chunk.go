package storage

import (
	"sync/atomic"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/daviszhen/poslist/pkg/common"
	"github.com/daviszhen/poslist/pkg/poslist"
)

// Chunk is a horizontal partition of a table: one ValueSegment per column.
// A chunk is appended to until Finalize; after that it never changes and
// may back MatchesAllPosLists and indexes.
type Chunk struct {
	segments  []*ValueSegment
	size      int
	finalized atomic.Bool
}

func NewChunk(defs []*ColumnDefinition) *Chunk {
	ret := &Chunk{}
	for _, def := range defs {
		ret.segments = append(ret.segments, NewValueSegment(def.Type, def.Nullable))
	}
	return ret
}

func (c *Chunk) Size() int {
	return c.size
}

func (c *Chunk) ColumnCount() int {
	return len(c.segments)
}

func (c *Chunk) IsFinalized() bool {
	return c.finalized.Load()
}

func (c *Chunk) Finalize() {
	c.finalized.Store(true)
}

func (c *Chunk) Segment(col ColumnID) *ValueSegment {
	if int(col) >= len(c.segments) {
		panic(errors.Wrapf(ErrNoSuchColumn, "column %d, chunk has %d", col, len(c.segments)))
	}
	return c.segments[col]
}

// Append adds one row. Nothing is appended when any value is rejected.
func (c *Chunk) Append(row []*common.Value) error {
	if c.IsFinalized() {
		return ErrChunkFinalized
	}
	if len(row) != len(c.segments) {
		return errors.Wrapf(ErrColumnCount, "got %d values for %d columns", len(row), len(c.segments))
	}
	for i, val := range row {
		seg := c.segments[i]
		if val == nil || val.IsNull {
			if !seg.Nullable() {
				return errors.Wrapf(ErrNotNullable, "column %d", i)
			}
			continue
		}
		if !val.Typ.Equal(seg.Type()) {
			return errors.Wrapf(ErrTypeMismatch, "column %d: %v into %v", i, val.Typ, seg.Type())
		}
	}
	for i, val := range row {
		if err := c.segments[i].Append(val); err != nil {
			return err
		}
	}
	c.size++
	return nil
}

func (c *Chunk) MemoryUsage(mode poslist.MemoryUsageMode) int {
	ret := int(unsafe.Sizeof(*c))
	for _, seg := range c.segments {
		ret += seg.MemoryUsage(mode)
	}
	return ret
}

var _ poslist.Chunk = (*Chunk)(nil)
