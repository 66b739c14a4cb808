package poslist

import (
	"slices"
)

// Equal reports whether a and b denote the same sequence of RowIDs.
//
// Two matches-all lists compare by chunk. Two RowID lists compare their
// slices. Every other pairing walks the synthesized sequence of one side
// against the other.
func Equal(a, b PosList) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if ma, ok := a.(*MatchesAllPosList); ok {
		if mb, ok := b.(*MatchesAllPosList); ok {
			return equalMatchesAll(ma, mb)
		}
	}
	ra, aIsRows := a.(*RowIDPosList)
	rb, bIsRows := b.(*RowIDPosList)
	if aIsRows && bIsRows {
		return slices.Equal(ra.rows, rb.rows)
	}

	n := a.Size()
	if n != b.Size() {
		return false
	}
	if n == 0 {
		return true
	}
	switch {
	case aIsRows:
		return equalRows(ra.rows, b)
	case bIsRows:
		return equalRows(rb.rows, a)
	default:
		return equalIter(a.Iter(), b.Iter())
	}
}

// equalMatchesAll compares chunk id and size only. Chunk implementations
// need not be comparable.
func equalMatchesAll(a, b *MatchesAllPosList) bool {
	n := a.Size()
	if n != b.Size() {
		return false
	}
	return n == 0 || a.chunkID == b.chunkID
}

func equalRows(rows []RowID, other PosList) bool {
	it := other.Iter()
	for _, row := range rows {
		if !it.Next() || it.RowID() != row {
			return false
		}
	}
	return !it.Next()
}

func equalIter(a, b Iterator) bool {
	for {
		na, nb := a.Next(), b.Next()
		if na != nb {
			return false
		}
		if !na {
			return true
		}
		if a.RowID() != b.RowID() {
			return false
		}
	}
}
