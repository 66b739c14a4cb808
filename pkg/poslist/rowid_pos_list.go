package poslist

import (
	"slices"
)

// RowIDPosList stores every RowID explicitly. It is the default output of
// scans, joins and sorts.
//
// The single-chunk flag is advisory: the producer sets it after proving the
// property, and only verification mode checks it. Mutators exist for the
// producer. Once Freeze is called the list is read-only.
type RowIDPosList struct {
	rows        []RowID
	singleChunk bool
	frozen      bool
}

func NewRowIDPosList(rows ...RowID) *RowIDPosList {
	return &RowIDPosList{rows: slices.Clone(rows)}
}

// NewRowIDPosListWithSize returns count copies of fill.
func NewRowIDPosListWithSize(count int, fill RowID) *RowIDPosList {
	if count < 0 {
		fail(ErrPrecondition, "negative size %d", count)
	}
	rows := make([]RowID, count)
	for i := range rows {
		rows[i] = fill
	}
	return &RowIDPosList{rows: rows}
}

// NewRowIDPosListFromSlice takes ownership of rows. The caller must not
// touch rows afterwards.
func NewRowIDPosListFromSlice(rows []RowID) *RowIDPosList {
	return &RowIDPosList{rows: rows}
}

// NewRowIDPosListFromIter copies the remaining entries of it.
func NewRowIDPosListFromIter(it Iterator) *RowIDPosList {
	rows := make([]RowID, 0, it.Remaining())
	for it.Next() {
		rows = append(rows, it.RowID())
	}
	return &RowIDPosList{rows: rows}
}

func (l *RowIDPosList) Type() PosListType {
	return PosListTypeRowID
}

func (l *RowIDPosList) Size() int {
	return len(l.rows)
}

func (l *RowIDPosList) Empty() bool {
	return len(l.rows) == 0
}

func (l *RowIDPosList) Get(i int) RowID {
	checkIndex(i, len(l.rows))
	return l.rows[i]
}

// Rows exposes the backing slice. Callers must not modify it.
func (l *RowIDPosList) Rows() []RowID {
	return l.rows
}

func (l *RowIDPosList) Capacity() int {
	return cap(l.rows)
}

// GuaranteeSingleChunk records that every entry shares one chunk id. Only
// call it after proving that, e.g. when scanning a single chunk.
func (l *RowIDPosList) GuaranteeSingleChunk() {
	l.checkMutable()
	l.singleChunk = true
	debugCheckSingleChunk(l.rows)
}

func (l *RowIDPosList) ReferencesSingleChunk() bool {
	if l.singleChunk {
		debugCheckSingleChunk(l.rows)
	}
	return l.singleChunk
}

func (l *RowIDPosList) CommonChunkID() ChunkID {
	if !l.ReferencesSingleChunk() {
		fail(ErrPrecondition, "common chunk id of a pos list not guaranteed to reference a single chunk")
	}
	if len(l.rows) == 0 {
		fail(ErrPrecondition, "common chunk id of an empty pos list")
	}
	return l.rows[0].ChunkID
}

func (l *RowIDPosList) MemoryUsage(MemoryUsageMode) int {
	return len(l.rows) * RowIDSize
}

func (l *RowIDPosList) Equal(other PosList) bool {
	return Equal(l, other)
}

func (l *RowIDPosList) Iter() Iterator {
	return Iterator{
		typ:  PosListTypeRowID,
		idx:  -1,
		size: len(l.rows),
		rows: l.rows,
	}
}

// Freeze makes the list read-only. Every later mutation panics.
func (l *RowIDPosList) Freeze() {
	l.frozen = true
}

func (l *RowIDPosList) Frozen() bool {
	return l.frozen
}

func (l *RowIDPosList) checkMutable() {
	if l.frozen {
		fail(ErrPrecondition, "mutating a frozen pos list")
	}
}

// checkAdded keeps the single-chunk guarantee consistent with new entries.
func (l *RowIDPosList) checkAdded(added []RowID) {
	if !l.singleChunk || !VerificationEnabled() || len(added) == 0 {
		return
	}
	common := added[0].ChunkID
	if len(l.rows) > 0 {
		common = l.rows[0].ChunkID
	}
	for _, row := range added {
		if row.ChunkID != common {
			fail(ErrInvariantViolation,
				"adding %v to a pos list guaranteed to reference only chunk %d", row, common)
		}
	}
}

func (l *RowIDPosList) PushBack(rows ...RowID) {
	l.checkMutable()
	l.checkAdded(rows)
	l.rows = append(l.rows, rows...)
}

// Insert places rows before position pos. pos may equal Size().
func (l *RowIDPosList) Insert(pos int, rows ...RowID) {
	l.checkMutable()
	if pos < 0 || pos > len(l.rows) {
		fail(ErrOutOfRange, "insert position %d, size %d", pos, len(l.rows))
	}
	l.checkAdded(rows)
	l.rows = slices.Insert(l.rows, pos, rows...)
}

// Resize grows with copies of fill or shrinks to n entries.
func (l *RowIDPosList) Resize(n int, fill RowID) {
	l.checkMutable()
	if n < 0 {
		fail(ErrPrecondition, "negative size %d", n)
	}
	if n <= len(l.rows) {
		l.rows = l.rows[:n]
		return
	}
	l.checkAdded([]RowID{fill})
	l.rows = slices.Grow(l.rows, n-len(l.rows))
	for len(l.rows) < n {
		l.rows = append(l.rows, fill)
	}
}

func (l *RowIDPosList) Truncate(n int) {
	l.checkMutable()
	if n < 0 || n > len(l.rows) {
		fail(ErrOutOfRange, "truncate to %d, size %d", n, len(l.rows))
	}
	l.rows = l.rows[:n]
}

func (l *RowIDPosList) Clear() {
	l.checkMutable()
	l.rows = l.rows[:0]
}

func (l *RowIDPosList) Reserve(n int) {
	l.checkMutable()
	if n > cap(l.rows) {
		l.rows = slices.Grow(l.rows, n-len(l.rows))
	}
}
