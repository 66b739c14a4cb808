package storage

import (
	"math"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/tidwall/btree"

	"github.com/daviszhen/poslist/pkg/common"
	"github.com/daviszhen/poslist/pkg/poslist"
	"github.com/daviszhen/poslist/pkg/util"
)

type indexEntry struct {
	key    *common.Value
	offset poslist.ChunkOffset
	pos    int
}

func indexEntryLess(a, b *indexEntry) bool {
	if c := a.key.Compare(b.key); c != 0 {
		return c < 0
	}
	return a.offset < b.offset
}

// ChunkIndex orders the non-null offsets of one column of one finalized
// chunk by value. Range lookups return iterators into its postings, the
// flattened offsets in key order, so range scans need not copy offsets.
type ChunkIndex struct {
	chunkID  poslist.ChunkID
	columnID ColumnID
	typ      common.LType
	tree     *btree.BTreeG[*indexEntry]
	postings []poslist.ChunkOffset
	nulls    []poslist.ChunkOffset
}

func NewChunkIndex(table *Table, chunkID poslist.ChunkID, columnID ColumnID) (*ChunkIndex, error) {
	if !table.HasColumn(columnID) {
		return nil, errors.Wrapf(ErrNoSuchColumn, "column %d of %s", columnID, table.Name())
	}
	if int(chunkID) >= table.ChunkCount() {
		return nil, errors.Wrapf(poslist.ErrOutOfRange, "chunk %d of %s", chunkID, table.Name())
	}
	chunk := table.GetChunk(chunkID)
	if !chunk.IsFinalized() {
		return nil, errors.Errorf("index over mutable chunk %d of %s", chunkID, table.Name())
	}
	seg := chunk.Segment(columnID)
	ret := &ChunkIndex{
		chunkID:  chunkID,
		columnID: columnID,
		typ:      seg.Type(),
		tree:     btree.NewBTreeG[*indexEntry](indexEntryLess),
	}
	for i := 0; i < seg.Size(); i++ {
		off := poslist.ChunkOffset(i)
		if seg.IsNull(off) {
			ret.nulls = append(ret.nulls, off)
			continue
		}
		ret.tree.Set(&indexEntry{key: seg.Get(off), offset: off})
	}
	ret.postings = make([]poslist.ChunkOffset, 0, ret.tree.Len())
	ret.tree.Scan(func(item *indexEntry) bool {
		item.pos = len(ret.postings)
		ret.postings = append(ret.postings, item.offset)
		return true
	})
	return ret, nil
}

func (idx *ChunkIndex) ChunkID() poslist.ChunkID {
	return idx.chunkID
}

func (idx *ChunkIndex) ColumnID() ColumnID {
	return idx.columnID
}

func (idx *ChunkIndex) Type() common.LType {
	return idx.typ
}

func (idx *ChunkIndex) Begin() poslist.IndexIterator {
	return poslist.NewIndexIterator(idx.postings, 0)
}

func (idx *ChunkIndex) End() poslist.IndexIterator {
	return poslist.NewIndexIterator(idx.postings, len(idx.postings))
}

func (idx *ChunkIndex) NullBegin() poslist.IndexIterator {
	return poslist.NewIndexIterator(idx.nulls, 0)
}

func (idx *ChunkIndex) NullEnd() poslist.IndexIterator {
	return poslist.NewIndexIterator(idx.nulls, len(idx.nulls))
}

// LowerBound points at the first entry whose key is not less than val.
func (idx *ChunkIndex) LowerBound(val *common.Value) poslist.IndexIterator {
	return idx.seek(&indexEntry{key: val, offset: 0})
}

// UpperBound points at the first entry whose key is greater than val.
func (idx *ChunkIndex) UpperBound(val *common.Value) poslist.IndexIterator {
	return idx.seek(&indexEntry{key: val, offset: math.MaxUint32})
}

func (idx *ChunkIndex) seek(pivot *indexEntry) poslist.IndexIterator {
	util.AssertFunc(!pivot.key.IsNull && pivot.key.Typ.Id == idx.typ.Id)
	pos := len(idx.postings)
	idx.tree.Ascend(pivot, func(item *indexEntry) bool {
		pos = item.pos
		return false
	})
	return poslist.NewIndexIterator(idx.postings, pos)
}

// Range returns the entries with low <= key <= high. A nil bound is open.
func (idx *ChunkIndex) Range(low, high *common.Value) (poslist.IndexIterator, poslist.IndexIterator) {
	begin, end := idx.Begin(), idx.End()
	if low != nil {
		begin = idx.LowerBound(low)
	}
	if high != nil {
		end = idx.UpperBound(high)
	}
	if begin.DistanceTo(end) < 0 {
		end = begin
	}
	return begin, end
}

func (idx *ChunkIndex) MemoryUsage(poslist.MemoryUsageMode) int {
	entry := int(unsafe.Sizeof(indexEntry{})) + int(unsafe.Sizeof(common.Value{}))
	return int(unsafe.Sizeof(*idx)) +
		idx.tree.Len()*entry +
		(cap(idx.postings)+cap(idx.nulls))*int(unsafe.Sizeof(poslist.ChunkOffset(0)))
}
