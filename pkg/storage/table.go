package storage

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/daviszhen/poslist/pkg/common"
	"github.com/daviszhen/poslist/pkg/poslist"
	"github.com/daviszhen/poslist/pkg/util"
)

// Table is a list of chunks sharing one schema. Rows go into the last
// chunk; a full chunk is finalized and a new one is opened.
type Table struct {
	name            string
	defs            []*ColumnDefinition
	chunks          []*Chunk
	targetChunkSize int
	lock            *util.ReentryLock
}

func NewTable(name string, defs []*ColumnDefinition, targetChunkSize int) (*Table, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("table %s has no columns", name)
	}
	if targetChunkSize <= 0 {
		return nil, fmt.Errorf("table %s: chunk size must be positive, got %d", name, targetChunkSize)
	}
	names := make(map[string]bool)
	for _, def := range defs {
		if !def.Type.IsValid() {
			return nil, fmt.Errorf("table %s: column %s has invalid type", name, def.Name)
		}
		if names[def.Name] {
			return nil, fmt.Errorf("table %s: duplicate column %s", name, def.Name)
		}
		names[def.Name] = true
	}
	return &Table{
		name:            name,
		defs:            defs,
		targetChunkSize: targetChunkSize,
		lock:            util.NewReentryLock(),
	}, nil
}

func (t *Table) Name() string {
	return t.name
}

func (t *Table) TargetChunkSize() int {
	return t.targetChunkSize
}

func (t *Table) ColumnCount() int {
	return len(t.defs)
}

func (t *Table) ColumnDefinitions() []*ColumnDefinition {
	return t.defs
}

func (t *Table) ColumnType(col ColumnID) common.LType {
	return t.defs[col].Type
}

func (t *Table) ColumnName(col ColumnID) string {
	return t.defs[col].Name
}

func (t *Table) HasColumn(col ColumnID) bool {
	return int(col) < len(t.defs)
}

func (t *Table) ColumnIDByName(name string) (ColumnID, error) {
	if i := util.FindIf(t.defs, func(def *ColumnDefinition) bool {
		return def.Name == name
	}); i >= 0 {
		return ColumnID(i), nil
	}
	return InvalidColumnID, errors.Wrapf(ErrNoSuchColumn, "%s.%s", t.name, name)
}

func (t *Table) Append(row []*common.Value) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if len(t.chunks) == 0 || t.lastChunk().IsFinalized() {
		t.chunks = append(t.chunks, NewChunk(t.defs))
	}
	last := t.lastChunk()
	if err := last.Append(row); err != nil {
		return err
	}
	if last.Size() >= t.targetChunkSize {
		t.FinalizeLastChunk()
	}
	return nil
}

// FinalizeLastChunk seals the chunk being appended to, if any.
func (t *Table) FinalizeLastChunk() {
	t.lock.Lock()
	defer t.lock.Unlock()
	if len(t.chunks) == 0 {
		return
	}
	last := t.lastChunk()
	if last.IsFinalized() {
		return
	}
	last.Finalize()
	util.Debug("chunk finalized",
		zap.String("table", t.name),
		zap.Int("chunkID", len(t.chunks)-1),
		zap.Int("rows", last.Size()))
}

func (t *Table) lastChunk() *Chunk {
	return util.Back(t.chunks)
}

func (t *Table) ChunkCount() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	return len(t.chunks)
}

func (t *Table) GetChunk(id poslist.ChunkID) *Chunk {
	t.lock.Lock()
	defer t.lock.Unlock()
	if int(id) >= len(t.chunks) {
		panic(errors.Wrapf(poslist.ErrOutOfRange, "chunk %d, table %s has %d", id, t.name, len(t.chunks)))
	}
	return t.chunks[id]
}

func (t *Table) RowCount() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	ret := 0
	for _, c := range t.chunks {
		ret += c.Size()
	}
	return ret
}

func (t *Table) MemoryUsage(mode poslist.MemoryUsageMode) int {
	t.lock.Lock()
	defer t.lock.Unlock()
	ret := 0
	for _, c := range t.chunks {
		ret += c.MemoryUsage(mode)
	}
	return ret
}
