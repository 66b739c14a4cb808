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

package compute

import (
	"context"
	"fmt"

	"github.com/RoaringBitmap/roaring"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/daviszhen/poslist/pkg/common"
	"github.com/daviszhen/poslist/pkg/poslist"
	"github.com/daviszhen/poslist/pkg/storage"
	"github.com/daviszhen/poslist/pkg/util"
)

// Predicate decides whether a value qualifies. Nulls reach the predicate.
type Predicate func(val *common.Value) bool

// Between keeps non-null values in [low, high].
func Between(low, high *common.Value) Predicate {
	return func(val *common.Value) bool {
		return !val.IsNull && val.Compare(low) >= 0 && val.Compare(high) <= 0
	}
}

func Equals(want *common.Value) Predicate {
	return func(val *common.Value) bool {
		return !val.IsNull && val.Equal(want)
	}
}

func IsNotNull(val *common.Value) bool {
	return !val.IsNull
}

// Filter applies a predicate on one column. A nil filter keeps every row.
type Filter struct {
	ColumnID  storage.ColumnID
	Predicate Predicate
}

type ScanStats struct {
	Chunks       int
	SkippedEmpty int
	MatchesAll   int
	Materialized int
	Rows         int
}

// TableScan evaluates a filter over every chunk of a table and emits one
// reference chunk per chunk with at least one match. A finalized chunk whose
// rows all qualify is referenced by a matches-all list. Otherwise the matches
// are materialized into a frozen single-chunk RowIDPosList.
type TableScan struct {
	Table       *storage.Table
	Filter      *Filter
	Projection  []storage.ColumnID
	Parallelism int

	stats ScanStats
}

func (scan *TableScan) Init() error {
	if scan.Table == nil {
		return fmt.Errorf("table scan without table")
	}
	if scan.Filter != nil {
		if !scan.Table.HasColumn(scan.Filter.ColumnID) {
			return fmt.Errorf("no filter column %d in %s", scan.Filter.ColumnID, scan.Table.Name())
		}
		if scan.Filter.Predicate == nil {
			return fmt.Errorf("filter on column %d without predicate", scan.Filter.ColumnID)
		}
	}
	if len(scan.Projection) == 0 {
		for i := 0; i < scan.Table.ColumnCount(); i++ {
			scan.Projection = append(scan.Projection, storage.ColumnID(i))
		}
	}
	for _, col := range scan.Projection {
		if !scan.Table.HasColumn(col) {
			return fmt.Errorf("no such column %d in %s", col, scan.Table.Name())
		}
	}
	if scan.Parallelism <= 0 {
		scan.Parallelism = 1
	}
	return nil
}

// Execute returns the output chunks in chunk id order.
func (scan *TableScan) Execute(ctx context.Context) ([]*storage.ReferenceChunk, error) {
	if err := scan.Init(); err != nil {
		return nil, err
	}
	chunkCount := scan.Table.ChunkCount()
	outputs := make([]*storage.ReferenceChunk, chunkCount)
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(scan.Parallelism)
	for i := 0; i < chunkCount; i++ {
		if gctx.Err() != nil {
			break
		}
		chunkID := poslist.ChunkID(i)
		grp.Go(func() (err error) {
			defer func() {
				if v := recover(); v != nil {
					err = util.ConvertPanicError(v)
				}
			}()
			if err = gctx.Err(); err != nil {
				return err
			}
			outputs[chunkID], err = scan.scanChunk(chunkID)
			return err
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scan.stats = ScanStats{Chunks: chunkCount}
	ret := make([]*storage.ReferenceChunk, 0, chunkCount)
	for _, out := range outputs {
		if out == nil {
			scan.stats.SkippedEmpty++
			continue
		}
		if out.PosList().Type() == poslist.PosListTypeMatchesAll {
			scan.stats.MatchesAll++
		} else {
			scan.stats.Materialized++
		}
		scan.stats.Rows += out.Size()
		ret = append(ret, out)
	}
	util.Debug("table scan done",
		zap.String("table", scan.Table.Name()),
		zap.Int("chunks", scan.stats.Chunks),
		zap.Int("matchesAll", scan.stats.MatchesAll),
		zap.Int("materialized", scan.stats.Materialized),
		zap.Int("rows", scan.stats.Rows))
	return ret, nil
}

func (scan *TableScan) Stats() ScanStats {
	return scan.stats
}

const faultScanChunk = "scan_chunk_error"

func (scan *TableScan) scanChunk(chunkID poslist.ChunkID) (*storage.ReferenceChunk, error) {
	if fa := util.CheckFault(util.FaultScopeScan, faultScanChunk); fa != nil {
		if err := fa.Run(); err != nil {
			return nil, fmt.Errorf("scan chunk %d: %w", chunkID, err)
		}
	}
	chunk := scan.Table.GetChunk(chunkID)
	//the size is fixed at this point for finalized chunks only
	size := chunk.Size()
	if size == 0 {
		return nil, nil
	}
	matched := roaring.New()
	if scan.Filter == nil {
		matched.AddRange(0, uint64(size))
	} else {
		seg := chunk.Segment(scan.Filter.ColumnID)
		for off := 0; off < size; off++ {
			if scan.Filter.Predicate(seg.Get(poslist.ChunkOffset(off))) {
				matched.Add(uint32(off))
			}
		}
	}
	if matched.IsEmpty() {
		return nil, nil
	}
	var pl poslist.PosList
	if chunk.IsFinalized() && matched.GetCardinality() == uint64(size) {
		pl = poslist.NewMatchesAllPosList(chunk, chunkID)
	} else {
		pl = bitmapPosList(chunkID, matched)
	}
	return storage.NewReferenceChunk(scan.Table, scan.Projection, pl), nil
}

func bitmapPosList(chunkID poslist.ChunkID, matched *roaring.Bitmap) *poslist.RowIDPosList {
	rows := make([]poslist.RowID, 0, matched.GetCardinality())
	it := matched.Iterator()
	for it.HasNext() {
		rows = append(rows, poslist.RowID{ChunkID: chunkID, ChunkOffset: poslist.ChunkOffset(it.Next())})
	}
	ret := poslist.NewRowIDPosListFromSlice(rows)
	ret.GuaranteeSingleChunk()
	ret.Freeze()
	return ret
}

// FilterReferenceChunk narrows the output of an earlier operator. The result
// references the original table directly, and keeps the single-chunk
// guarantee of the input. A nil filter keeps every row and returns input.
func FilterReferenceChunk(input *storage.ReferenceChunk, filter *Filter) (*storage.ReferenceChunk, error) {
	if input.ColumnCount() == 0 {
		return nil, fmt.Errorf("filter over reference chunk without columns")
	}
	if filter == nil {
		return input, nil
	}
	if filter.Predicate == nil {
		return nil, fmt.Errorf("filter on column %d without predicate", filter.ColumnID)
	}
	table := input.Segment(0).ReferencedTable()
	if !table.HasColumn(filter.ColumnID) {
		return nil, fmt.Errorf("no filter column %d in %s", filter.ColumnID, table.Name())
	}
	columns := make([]storage.ColumnID, input.ColumnCount())
	for i := range columns {
		columns[i] = input.Segment(i).ReferencedColumnID()
	}

	in := input.PosList()
	probe := storage.NewReferenceSegment(table, filter.ColumnID, in)
	out := poslist.NewRowIDPosList()
	out.Reserve(in.Size())
	if in.ReferencesSingleChunk() && !in.Empty() {
		out.GuaranteeSingleChunk()
	}
	poslist.ForEach(in, func(i int, row poslist.RowID) bool {
		if filter.Predicate(probe.Get(i)) {
			out.PushBack(row)
		}
		return true
	})
	out.Freeze()
	return storage.NewReferenceChunk(table, columns, out), nil
}
