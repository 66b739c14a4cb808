package storage

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviszhen/poslist/pkg/common"
	"github.com/daviszhen/poslist/pkg/poslist"
)

const testChunkSize = 4

func TestMain(m *testing.M) {
	poslist.SetVerification(true)
	os.Exit(m.Run())
}

func testColumnDefs() []*ColumnDefinition {
	return []*ColumnDefinition{
		{Name: "id", Type: common.IntegerType()},
		{Name: "name", Type: common.VarcharType(), Nullable: true},
		{Name: "price", Type: common.DecimalType(10, 2)},
	}
}

// newTestTable holds rows id=0..rows-1, name "n<id>" with every third name
// null, price id/100. All chunks are finalized.
func newTestTable(t *testing.T, rows int) *Table {
	table, err := NewTable("t1", testColumnDefs(), testChunkSize)
	require.NoError(t, err)
	for i := 0; i < rows; i++ {
		name := common.VarcharValue(fmt.Sprintf("n%d", i))
		if i%3 == 0 {
			name = common.NullValue(common.VarcharType())
		}
		price, err := common.DecimalValue(common.DecimalType(10, 2), fmt.Sprintf("%d.%02d", i/100, i%100))
		require.NoError(t, err)
		require.NoError(t, table.Append([]*common.Value{common.IntegerValue(int32(i)), name, price}))
	}
	table.FinalizeLastChunk()
	return table
}

func requirePanicIs(t *testing.T, target error, f func()) {
	t.Helper()
	var recovered interface{}
	func() {
		defer func() {
			recovered = recover()
		}()
		f()
	}()
	require.NotNil(t, recovered)
	err, ok := recovered.(error)
	require.True(t, ok, "panic value %v", recovered)
	require.True(t, errors.Is(err, target), "panic %v does not wrap %v", err, target)
}

func TestValueSegment(t *testing.T) {
	seg := NewValueSegment(common.BigintType(), true)
	require.NoError(t, seg.Append(common.BigintValue(5)))
	require.NoError(t, seg.Append(nil))
	require.NoError(t, seg.Append(common.NullValue(common.BigintType())))
	require.NoError(t, seg.Append(common.BigintValue(-1)))
	assert.Equal(t, 4, seg.Size())
	assert.Equal(t, int64(5), seg.Get(0).I64)
	assert.True(t, seg.Get(1).IsNull)
	assert.True(t, seg.Get(2).IsNull)
	assert.Equal(t, int64(-1), seg.Get(3).I64)
	assert.True(t, seg.IsNull(1))
	assert.False(t, seg.IsNull(3))
	requirePanicIs(t, poslist.ErrOutOfRange, func() { seg.Get(4) })

	err := seg.Append(common.IntegerValue(1))
	assert.ErrorIs(t, err, ErrTypeMismatch)

	strict := NewValueSegment(common.DoubleType(), false)
	assert.ErrorIs(t, strict.Append(nil), ErrNotNullable)
	require.NoError(t, strict.Append(common.DoubleValue(2.5)))
	assert.Equal(t, 2.5, strict.Get(0).F64)
	assert.Greater(t, strict.MemoryUsage(poslist.MemoryUsageFull), 0)

	strs := NewValueSegment(common.VarcharType(), false)
	for i := 0; i < 200; i++ {
		require.NoError(t, strs.Append(common.VarcharValue("abcd")))
	}
	assert.Equal(t, strs.MemoryUsage(poslist.MemoryUsageFull), strs.MemoryUsage(poslist.MemoryUsageSampled))
}

func TestChunk(t *testing.T) {
	chunk := NewChunk(testColumnDefs())
	price, err := common.DecimalValue(common.DecimalType(10, 2), "1.5")
	require.NoError(t, err)
	require.NoError(t, chunk.Append([]*common.Value{common.IntegerValue(1), nil, price}))
	assert.Equal(t, 1, chunk.Size())
	assert.Equal(t, 3, chunk.ColumnCount())

	//rejected rows leave no partial values behind
	err = chunk.Append([]*common.Value{common.IntegerValue(2), common.VarcharValue("x"), common.IntegerValue(3)})
	assert.ErrorIs(t, err, ErrTypeMismatch)
	err = chunk.Append([]*common.Value{nil, common.VarcharValue("x"), price})
	assert.ErrorIs(t, err, ErrNotNullable)
	err = chunk.Append([]*common.Value{common.IntegerValue(2)})
	assert.ErrorIs(t, err, ErrColumnCount)
	assert.Equal(t, 1, chunk.Size())
	for col := 0; col < chunk.ColumnCount(); col++ {
		assert.Equal(t, 1, chunk.Segment(ColumnID(col)).Size())
	}

	assert.False(t, chunk.IsFinalized())
	chunk.Finalize()
	assert.True(t, chunk.IsFinalized())
	assert.ErrorIs(t, chunk.Append([]*common.Value{common.IntegerValue(2), nil, price}), ErrChunkFinalized)
	requirePanicIs(t, ErrNoSuchColumn, func() { chunk.Segment(3) })
}

func TestTable(t *testing.T) {
	table := newTestTable(t, 10)
	assert.Equal(t, "t1", table.Name())
	assert.Equal(t, 3, table.ChunkCount())
	assert.Equal(t, 10, table.RowCount())
	assert.Equal(t, 4, table.GetChunk(0).Size())
	assert.Equal(t, 2, table.GetChunk(2).Size())
	for i := 0; i < table.ChunkCount(); i++ {
		assert.True(t, table.GetChunk(poslist.ChunkID(i)).IsFinalized())
	}
	requirePanicIs(t, poslist.ErrOutOfRange, func() { table.GetChunk(3) })

	col, err := table.ColumnIDByName("price")
	require.NoError(t, err)
	assert.Equal(t, ColumnID(2), col)
	_, err = table.ColumnIDByName("missing")
	assert.ErrorIs(t, err, ErrNoSuchColumn)

	assert.Equal(t, "7", table.GetChunk(1).Segment(0).Get(3).String())
	assert.Equal(t, "0.07", table.GetChunk(1).Segment(2).Get(3).String())
	assert.True(t, table.GetChunk(1).Segment(1).Get(2).IsNull)

	//appending after finalize opens a new chunk
	price, _ := common.DecimalValue(common.DecimalType(10, 2), "0")
	require.NoError(t, table.Append([]*common.Value{common.IntegerValue(10), nil, price}))
	assert.Equal(t, 4, table.ChunkCount())
	assert.False(t, table.GetChunk(3).IsFinalized())
	assert.Greater(t, table.MemoryUsage(poslist.MemoryUsageFull), 0)
}

func TestNewTable_invalid(t *testing.T) {
	_, err := NewTable("t", nil, 4)
	assert.Error(t, err)
	_, err = NewTable("t", testColumnDefs(), 0)
	assert.Error(t, err)
	_, err = NewTable("t", []*ColumnDefinition{{Name: "a", Type: common.IntegerType()}, {Name: "a", Type: common.IntegerType()}}, 4)
	assert.Error(t, err)
	_, err = NewTable("t", []*ColumnDefinition{{Name: "a", Type: common.InvalidType()}}, 4)
	assert.Error(t, err)
}
