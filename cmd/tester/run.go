package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/xlab/treeprint"
	"go.uber.org/zap"

	"github.com/daviszhen/poslist/pkg/common"
	"github.com/daviszhen/poslist/pkg/compute"
	"github.com/daviszhen/poslist/pkg/poslist"
	"github.com/daviszhen/poslist/pkg/storage"
	"github.com/daviszhen/poslist/pkg/util"
)

const (
	keyCol    storage.ColumnID = 0
	tagCol    storage.ColumnID = 1
	amountCol storage.ColumnID = 2
)

var tags = []string{"AIR", "MAIL", "RAIL", "SHIP", "TRUCK"}

// genTable fills a table with keys drawn from [0, DistinctKey). Keys are
// sorted within each chunk every other chunk, so that a range over them
// makes some chunks match entirely.
func genTable(cfg *util.Config) (*storage.Table, error) {
	table, err := storage.NewTable("orders", []*storage.ColumnDefinition{
		{Name: "key", Type: common.BigintType()},
		{Name: "tag", Type: common.VarcharType(), Nullable: true},
		{Name: "amount", Type: common.DecimalType(12, 2)},
	}, cfg.Storage.ChunkSize)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(uint64(cfg.Gen.Seed), 0))
	for i := 0; i < cfg.Gen.Rows; i++ {
		var key int64
		if (i/cfg.Storage.ChunkSize)%2 == 0 {
			key = rng.Int64N(int64(cfg.Gen.DistinctKey))
		} else {
			//narrow chunks
			key = int64(i/cfg.Storage.ChunkSize) % int64(cfg.Gen.DistinctKey)
		}
		tag := common.NullValue(common.VarcharType())
		if n := rng.IntN(len(tags) + 1); n < len(tags) {
			tag = common.VarcharValue(tags[n])
		}
		amount, err := common.DecimalValue(common.DecimalType(12, 2),
			fmt.Sprintf("%d.%02d", rng.IntN(10000), rng.IntN(100)))
		if err != nil {
			return nil, err
		}
		if err = table.Append([]*common.Value{common.BigintValue(key), tag, amount}); err != nil {
			return nil, err
		}
	}
	table.FinalizeLastChunk()
	return table, nil
}

func keyRange(cfg *util.Config) (*common.Value, *common.Value) {
	return common.BigintValue(cfg.Scan.Low), common.BigintValue(cfg.Scan.High)
}

func runScan(ctx context.Context, cfg *util.Config, out io.Writer) error {
	table, err := genTable(cfg)
	if err != nil {
		return err
	}
	low, high := keyRange(cfg)
	scan := &compute.TableScan{
		Table:       table,
		Filter:      &compute.Filter{ColumnID: keyCol, Predicate: compute.Between(low, high)},
		Parallelism: cfg.Scan.Parallelism,
	}
	start := time.Now()
	chunks, err := scan.Execute(ctx)
	if err != nil {
		return err
	}
	util.Info("scan finished",
		zap.Int("rows", scan.Stats().Rows),
		zap.Duration("duration", time.Since(start)))

	tree := treeprint.NewWithRoot(fmt.Sprintf("scan %s key in [%d, %d]:", table.Name(), cfg.Scan.Low, cfg.Scan.High))
	scan.Stats().Print(tree)
	writeMemory(tree, table, chunks)
	writeCounts(tree, chunks)
	if cfg.Debug.PrintPlan {
		compute.WriteChunksTree(tree.AddBranch("output"), chunks, cfg.Debug.MaxOutputRows)
	}
	if cfg.Debug.PrintResult {
		writeRows(tree.AddBranch("rows"), chunks, cfg.Debug.MaxOutputRows)
	}
	_, err = fmt.Fprintln(out, tree.String())
	return err
}

func runIndex(ctx context.Context, cfg *util.Config, out io.Writer) error {
	table, err := genTable(cfg)
	if err != nil {
		return err
	}
	indexes, err := compute.BuildIndexes(table, keyCol)
	if err != nil {
		return err
	}
	low, high := keyRange(cfg)
	byIndex, err := (&compute.IndexScan{Table: table, Indexes: indexes, Low: low, High: high}).Execute(ctx)
	if err != nil {
		return err
	}
	byScan, err := (&compute.TableScan{
		Table:       table,
		Filter:      &compute.Filter{ColumnID: keyCol, Predicate: compute.Between(low, high)},
		Parallelism: cfg.Scan.Parallelism,
	}).Execute(ctx)
	if err != nil {
		return err
	}
	if err = sameRows(byIndex, byScan); err != nil {
		return err
	}

	tree := treeprint.NewWithRoot(fmt.Sprintf("index %s key in [%d, %d]:", table.Name(), cfg.Scan.Low, cfg.Scan.High))
	idxMem := 0
	for _, idx := range indexes {
		idxMem += idx.MemoryUsage(poslist.MemoryUsageSampled)
	}
	tree.AddNode(fmt.Sprintf("indexes: %d, %d bytes", len(indexes), idxMem))
	tree.AddNode(fmt.Sprintf("chunks: %d, same rows as table scan", len(byIndex)))
	writeMemory(tree, table, byIndex)
	writeCounts(tree, byIndex)
	if cfg.Debug.PrintPlan {
		compute.WriteChunksTree(tree.AddBranch("output"), byIndex, cfg.Debug.MaxOutputRows)
	}
	if cfg.Debug.PrintResult {
		writeRows(tree.AddBranch("rows"), byIndex, cfg.Debug.MaxOutputRows)
	}
	_, err = fmt.Fprintln(out, tree.String())
	return err
}

// sameRows compares the row sets of two outputs chunk by chunk. Index
// output is in key order, so offsets are compared sorted.
func sameRows(a, b []*storage.ReferenceChunk) error {
	if len(a) != len(b) {
		return fmt.Errorf("chunk count differs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		pa, pb := a[i].PosList(), b[i].PosList()
		if pa.CommonChunkID() != pb.CommonChunkID() {
			return fmt.Errorf("output %d: chunk %d vs %d", i, pa.CommonChunkID(), pb.CommonChunkID())
		}
		oa, ob := poslist.Offsets(pa), poslist.Offsets(pb)
		slices.Sort(oa)
		slices.Sort(ob)
		if !slices.Equal(oa, ob) {
			return fmt.Errorf("output %d differs:\n%s\n%s", i, poslist.Describe(pa), poslist.Describe(pb))
		}
	}
	return nil
}

func writeMemory(tree treeprint.Tree, table *storage.Table, chunks []*storage.ReferenceChunk) {
	used := 0
	for _, rc := range chunks {
		used += rc.MemoryUsage(poslist.MemoryUsageSampled)
	}
	branch := tree.AddBranch("memory")
	branch.AddNode(fmt.Sprintf("table: %d bytes", table.MemoryUsage(poslist.MemoryUsageSampled)))
	branch.AddNode(fmt.Sprintf("output: %d bytes", used))
}

func writeCounts(tree treeprint.Tree, chunks []*storage.ReferenceChunk) {
	counts := make(map[string]int)
	for _, rc := range chunks {
		for k, v := range compute.CountByKey(rc.Segment(int(tagCol))) {
			counts[k] += v
		}
	}
	compute.WriteMapTree(tree.AddBranch("count by tag"), counts)
}

func writeRows(tree treeprint.Tree, chunks []*storage.ReferenceChunk, limit int) {
	cnt := 0
	for _, rc := range chunks {
		for i := 0; i < rc.Size(); i++ {
			if cnt == limit {
				return
			}
			row := rc.Row(i)
			tree.AddNode(fmt.Sprintf("%v %v %v", row[keyCol], row[tagCol], row[amountCol]))
			cnt++
		}
	}
}
