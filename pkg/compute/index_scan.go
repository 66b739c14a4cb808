package compute

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/daviszhen/poslist/pkg/common"
	"github.com/daviszhen/poslist/pkg/poslist"
	"github.com/daviszhen/poslist/pkg/storage"
	"github.com/daviszhen/poslist/pkg/util"
)

// IndexScan answers a closed range over an indexed column. Each chunk yields
// a SingleChunkPosList borrowing the range of its index, so nothing is
// copied. A nil bound is open.
type IndexScan struct {
	Table      *storage.Table
	Indexes    []*storage.ChunkIndex
	Low, High  *common.Value
	Projection []storage.ColumnID
}

// BuildIndexes indexes one column of every finalized chunk.
func BuildIndexes(table *storage.Table, col storage.ColumnID) ([]*storage.ChunkIndex, error) {
	ret := make([]*storage.ChunkIndex, 0, table.ChunkCount())
	for i := 0; i < table.ChunkCount(); i++ {
		id := poslist.ChunkID(i)
		if !table.GetChunk(id).IsFinalized() {
			util.Warn("skip indexing mutable chunk",
				zap.String("table", table.Name()),
				zap.Uint32("chunkID", uint32(id)))
			continue
		}
		idx, err := storage.NewChunkIndex(table, id, col)
		if err != nil {
			return nil, err
		}
		ret = append(ret, idx)
	}
	return ret, nil
}

func (scan *IndexScan) Execute(ctx context.Context) ([]*storage.ReferenceChunk, error) {
	if scan.Table == nil {
		return nil, fmt.Errorf("index scan without table")
	}
	projection := scan.Projection
	if len(projection) == 0 {
		for i := 0; i < scan.Table.ColumnCount(); i++ {
			projection = append(projection, storage.ColumnID(i))
		}
	}
	ret := make([]*storage.ReferenceChunk, 0, len(scan.Indexes))
	for _, idx := range scan.Indexes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, bound := range []*common.Value{scan.Low, scan.High} {
			if bound == nil {
				continue
			}
			if bound.IsNull || !bound.Typ.Equal(idx.Type()) {
				return nil, fmt.Errorf("bound %v does not match index type %v", bound, idx.Type())
			}
		}
		begin, end := idx.Range(scan.Low, scan.High)
		if begin.Equal(end) {
			continue
		}
		pl := poslist.NewSingleChunkPosList(idx.ChunkID(), begin, end)
		ret = append(ret, storage.NewReferenceChunk(scan.Table, projection, pl))
	}
	return ret, nil
}
