package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviszhen/poslist/pkg/common"
	"github.com/daviszhen/poslist/pkg/poslist"
)

func newKeyTable(t *testing.T, keys []int64, nullAt map[int]bool) *Table {
	table, err := NewTable("k", []*ColumnDefinition{
		{Name: "k", Type: common.BigintType(), Nullable: true},
	}, len(keys))
	require.NoError(t, err)
	for i, k := range keys {
		val := common.BigintValue(k)
		if nullAt[i] {
			val = common.NullValue(common.BigintType())
		}
		require.NoError(t, table.Append([]*common.Value{val}))
	}
	table.FinalizeLastChunk()
	return table
}

func collectOffsets(begin, end poslist.IndexIterator) []poslist.ChunkOffset {
	ret := make([]poslist.ChunkOffset, 0)
	for it := begin; !it.Equal(end); it = it.Next() {
		ret = append(ret, it.Offset())
	}
	return ret
}

func TestChunkIndex(t *testing.T) {
	//offset:         0   1  2  3   4  5  6
	keys := []int64{30, 10, 20, 10, 40, 0, 20}
	table := newKeyTable(t, keys, map[int]bool{5: true})
	idx, err := NewChunkIndex(table, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, poslist.ChunkID(0), idx.ChunkID())
	assert.Equal(t, ColumnID(0), idx.ColumnID())
	assert.Equal(t, []poslist.ChunkOffset{1, 3, 2, 6, 0, 4}, collectOffsets(idx.Begin(), idx.End()))
	assert.Equal(t, []poslist.ChunkOffset{5}, collectOffsets(idx.NullBegin(), idx.NullEnd()))

	begin, end := idx.Range(common.BigintValue(15), common.BigintValue(30))
	assert.Equal(t, []poslist.ChunkOffset{2, 6, 0}, collectOffsets(begin, end))

	begin, end = idx.Range(common.BigintValue(10), common.BigintValue(10))
	assert.Equal(t, []poslist.ChunkOffset{1, 3}, collectOffsets(begin, end))

	begin, end = idx.Range(nil, common.BigintValue(20))
	assert.Equal(t, 4, begin.DistanceTo(end))

	begin, end = idx.Range(common.BigintValue(35), nil)
	assert.Equal(t, []poslist.ChunkOffset{4}, collectOffsets(begin, end))

	begin, end = idx.Range(common.BigintValue(50), nil)
	assert.True(t, begin.Equal(end))
	assert.True(t, begin.AtEnd())

	//empty when low > high
	begin, end = idx.Range(common.BigintValue(30), common.BigintValue(10))
	assert.Equal(t, 0, begin.DistanceTo(end))

	assert.Greater(t, idx.MemoryUsage(poslist.MemoryUsageFull), 0)
}

func TestChunkIndex_errors(t *testing.T) {
	table := newKeyTable(t, []int64{1, 2}, nil)
	_, err := NewChunkIndex(table, 0, 1)
	assert.ErrorIs(t, err, ErrNoSuchColumn)
	_, err = NewChunkIndex(table, 1, 0)
	assert.ErrorIs(t, err, poslist.ErrOutOfRange)

	open, err := NewTable("open", []*ColumnDefinition{{Name: "k", Type: common.BigintType()}}, 10)
	require.NoError(t, err)
	require.NoError(t, open.Append([]*common.Value{common.BigintValue(1)}))
	_, err = NewChunkIndex(open, 0, 0)
	assert.Error(t, err)
}

func TestChunkIndex_singleChunkPosList(t *testing.T) {
	keys := make([]int64, 32)
	for i := range keys {
		keys[i] = int64(i)
	}
	table := newKeyTable(t, keys, nil)
	idx, err := NewChunkIndex(table, 0, 0)
	require.NoError(t, err)

	begin, end := idx.Range(common.BigintValue(10), common.BigintValue(16))
	pl := poslist.NewSingleChunkPosList(idx.ChunkID(), begin, end)
	assert.Equal(t, 7, pl.Size())
	assert.Equal(t, poslist.RowID{ChunkID: 0, ChunkOffset: 10}, pl.Get(0))
	assert.Equal(t, poslist.RowID{ChunkID: 0, ChunkOffset: 16}, pl.Get(6))

	seg := NewReferenceSegment(table, 0, pl)
	assert.Equal(t, int64(13), seg.Get(3).I64)
}
