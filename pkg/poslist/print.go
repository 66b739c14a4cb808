package poslist

import (
	"fmt"

	"github.com/xlab/treeprint"
)

const printLimit = 8

func Print(pl PosList, tree treeprint.Tree) {
	if pl == nil {
		tree.AddNode("PosList: nil")
		return
	}
	branch := tree.AddMetaBranch(pl.Type().String(), fmt.Sprintf("size %d", pl.Size()))
	branch.AddNode(fmt.Sprintf("memory: %d bytes", pl.MemoryUsage(MemoryUsageFull)))
	Resolve(pl, VisitorFuncs{
		RowIDFunc: func(l *RowIDPosList) {
			branch.AddNode(fmt.Sprintf("singleChunk: %v", l.singleChunk))
			branch.AddNode(fmt.Sprintf("frozen: %v", l.frozen))
		},
		MatchesAllFunc: func(l *MatchesAllPosList) {
			branch.AddNode(fmt.Sprintf("chunk: %d", l.chunkID))
		},
		SingleChunkFunc: func(l *SingleChunkPosList) {
			branch.AddNode(fmt.Sprintf("chunk: %d", l.chunkID))
			branch.AddNode(fmt.Sprintf("index range: [%d,%d)", l.begin.pos, l.end.pos))
		},
	})
	if pl.Empty() {
		return
	}
	rows := branch.AddBranch("rows")
	ForEach(pl, func(i int, row RowID) bool {
		if i == printLimit {
			rows.AddNode(fmt.Sprintf("... %d more", pl.Size()-printLimit))
			return false
		}
		rows.AddNode(row.String())
		return true
	})
}

func Describe(pl PosList) string {
	tree := treeprint.NewWithRoot("PosList:")
	Print(pl, tree)
	return tree.String()
}
