package storage

import (
	"fmt"
	"unsafe"

	"github.com/huandu/go-clone"
	"github.com/pkg/errors"
	"github.com/xlab/treeprint"

	"github.com/daviszhen/poslist/pkg/common"
	"github.com/daviszhen/poslist/pkg/poslist"
)

// ReferenceSegment reads one column of a table through a pos list instead
// of holding values. Several segments of one operator output share one pos
// list. A segment never mutates its pos list.
type ReferenceSegment struct {
	// after an operator finishes, the referenced table must stay alive
	// for as long as its reference segments do.
	referencedTable    *Table
	referencedColumnID ColumnID
	posList            poslist.PosList
}

// NewReferenceSegment panics with poslist.ErrPrecondition for a nil table,
// an unknown column or a nil pos list.
func NewReferenceSegment(table *Table, columnID ColumnID, pl poslist.PosList) *ReferenceSegment {
	if table == nil {
		panic(errors.Wrap(poslist.ErrPrecondition, "reference segment over nil table"))
	}
	if !table.HasColumn(columnID) {
		panic(errors.Wrapf(poslist.ErrPrecondition, "reference segment over column %d of %s with %d columns",
			columnID, table.Name(), table.ColumnCount()))
	}
	if pl == nil {
		panic(errors.Wrap(poslist.ErrPrecondition, "reference segment without pos list"))
	}
	return &ReferenceSegment{
		referencedTable:    table,
		referencedColumnID: columnID,
		posList:            pl,
	}
}

func (seg *ReferenceSegment) PosList() poslist.PosList {
	return seg.posList
}

func (seg *ReferenceSegment) ReferencedTable() *Table {
	return seg.referencedTable
}

func (seg *ReferenceSegment) ReferencedColumnID() ColumnID {
	return seg.referencedColumnID
}

func (seg *ReferenceSegment) Type() common.LType {
	return seg.referencedTable.ColumnType(seg.referencedColumnID)
}

func (seg *ReferenceSegment) Size() int {
	return seg.posList.Size()
}

// Get returns the value of logical row i. Null RowIDs read as nulls.
func (seg *ReferenceSegment) Get(i int) *common.Value {
	row := seg.posList.Get(i)
	if row.IsNull() {
		return common.NullValue(seg.Type())
	}
	chunk := seg.referencedTable.GetChunk(row.ChunkID)
	return chunk.Segment(seg.referencedColumnID).Get(row.ChunkOffset)
}

// Values reads every row. A pos list referencing a single chunk resolves
// the chunk once.
func (seg *ReferenceSegment) Values() []*common.Value {
	ret := make([]*common.Value, 0, seg.Size())
	if seg.posList.Empty() {
		return ret
	}
	if seg.posList.ReferencesSingleChunk() {
		chunk := seg.referencedTable.GetChunk(seg.posList.CommonChunkID())
		vals := chunk.Segment(seg.referencedColumnID)
		poslist.ForEach(seg.posList, func(_ int, row poslist.RowID) bool {
			ret = append(ret, vals.Get(row.ChunkOffset))
			return true
		})
		return ret
	}
	var (
		lastID = poslist.InvalidChunkID
		vals   *ValueSegment
	)
	poslist.ForEach(seg.posList, func(_ int, row poslist.RowID) bool {
		if row.IsNull() {
			ret = append(ret, common.NullValue(seg.Type()))
			return true
		}
		if row.ChunkID != lastID {
			lastID = row.ChunkID
			vals = seg.referencedTable.GetChunk(row.ChunkID).Segment(seg.referencedColumnID)
		}
		ret = append(ret, vals.Get(row.ChunkOffset))
		return true
	})
	return ret
}

// MemoryUsage counts the segment and its pos list, not the referenced data.
func (seg *ReferenceSegment) MemoryUsage(mode poslist.MemoryUsageMode) int {
	return int(unsafe.Sizeof(*seg)) + seg.posList.MemoryUsage(mode)
}

// Copy returns a segment with its own copy of the pos list. Matches-all and
// single chunk lists copy their descriptors and keep sharing the chunk and
// the index.
func (seg *ReferenceSegment) Copy() *ReferenceSegment {
	return &ReferenceSegment{
		referencedTable:    seg.referencedTable,
		referencedColumnID: seg.referencedColumnID,
		posList:            copyPosList(seg.posList),
	}
}

func copyPosList(pl poslist.PosList) poslist.PosList {
	var ret poslist.PosList
	poslist.Resolve(pl, poslist.VisitorFuncs{
		RowIDFunc: func(l *poslist.RowIDPosList) {
			ret = clone.Clone(l).(*poslist.RowIDPosList)
		},
		MatchesAllFunc: func(l *poslist.MatchesAllPosList) {
			ret = poslist.NewMatchesAllPosList(l.Chunk(), l.ChunkID())
		},
		SingleChunkFunc: func(l *poslist.SingleChunkPosList) {
			ret = poslist.NewSingleChunkPosList(l.ChunkID(), l.RangeBegin(), l.RangeEnd())
		},
	})
	return ret
}

func (seg *ReferenceSegment) Print(tree treeprint.Tree) {
	branch := tree.AddMetaBranch("ReferenceSegment",
		fmt.Sprintf("%s.%s", seg.referencedTable.Name(), seg.referencedTable.ColumnName(seg.referencedColumnID)))
	branch.AddNode(fmt.Sprintf("type: %v", seg.Type()))
	branch.AddNode(fmt.Sprintf("size: %d", seg.Size()))
	poslist.Print(seg.posList, branch)
}

// ReferenceChunk is one chunk of an operator output: a reference segment
// per projected column, all sharing one pos list.
type ReferenceChunk struct {
	posList  poslist.PosList
	segments []*ReferenceSegment
}

func NewReferenceChunk(table *Table, columns []ColumnID, pl poslist.PosList) *ReferenceChunk {
	ret := &ReferenceChunk{posList: pl}
	for _, col := range columns {
		ret.segments = append(ret.segments, NewReferenceSegment(table, col, pl))
	}
	return ret
}

func (rc *ReferenceChunk) PosList() poslist.PosList {
	return rc.posList
}

func (rc *ReferenceChunk) Size() int {
	return rc.posList.Size()
}

func (rc *ReferenceChunk) ColumnCount() int {
	return len(rc.segments)
}

func (rc *ReferenceChunk) Segment(i int) *ReferenceSegment {
	return rc.segments[i]
}

// Row reads logical row i across all columns.
func (rc *ReferenceChunk) Row(i int) []*common.Value {
	ret := make([]*common.Value, len(rc.segments))
	for j, seg := range rc.segments {
		ret[j] = seg.Get(i)
	}
	return ret
}

// MemoryUsage counts the shared pos list once.
func (rc *ReferenceChunk) MemoryUsage(mode poslist.MemoryUsageMode) int {
	ret := int(unsafe.Sizeof(*rc)) + rc.posList.MemoryUsage(mode)
	ret += len(rc.segments) * int(unsafe.Sizeof(ReferenceSegment{}))
	return ret
}

func (rc *ReferenceChunk) Print(tree treeprint.Tree) {
	branch := tree.AddMetaBranch("ReferenceChunk", fmt.Sprintf("%d columns", len(rc.segments)))
	poslist.Print(rc.posList, branch)
	for _, seg := range rc.segments {
		branch.AddNode(fmt.Sprintf("%s: %v",
			seg.referencedTable.ColumnName(seg.referencedColumnID), seg.Type()))
	}
}
