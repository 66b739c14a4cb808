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
	"cmp"
	"fmt"
	"slices"

	"github.com/xlab/treeprint"

	"github.com/daviszhen/poslist/pkg/storage"
)

// WriteMapTree adds one node per entry, ordered by key.
func WriteMapTree[K cmp.Ordered, V any](tree treeprint.Tree, m map[K]V) {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		tree.AddNode(fmt.Sprintf("%v : %v", k, m[k]))
	}
}

func WriteChunksTree(tree treeprint.Tree, chunks []*storage.ReferenceChunk, limit int) {
	for i, rc := range chunks {
		if i == limit {
			tree.AddNode(fmt.Sprintf("... %d more chunks", len(chunks)-limit))
			return
		}
		rc.Print(tree.AddBranch(fmt.Sprintf("%d", i)))
	}
}

func (stats ScanStats) Print(tree treeprint.Tree) {
	branch := tree.AddMetaBranch("ScanStats", fmt.Sprintf("%d rows", stats.Rows))
	branch.AddNode(fmt.Sprintf("chunks: %d", stats.Chunks))
	branch.AddNode(fmt.Sprintf("skipped empty: %d", stats.SkippedEmpty))
	branch.AddNode(fmt.Sprintf("matches all: %d", stats.MatchesAll))
	branch.AddNode(fmt.Sprintf("materialized: %d", stats.Materialized))
}
