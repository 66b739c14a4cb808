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

package poslist

import (
	"sync/atomic"

	"github.com/pkg/errors"
)

var verification atomic.Bool

// SetVerification turns the exhaustive guarantee checks on or off.
//
// With verification off, a single-chunk guarantee given through
// GuaranteeSingleChunk is trusted as is. A wrong guarantee then yields wrong
// results instead of a failure.
func SetVerification(on bool) {
	verification.Store(on)
}

func VerificationEnabled() bool {
	return verification.Load()
}

// Verify scans pl and reports a contradicted single-chunk guarantee.
// It runs regardless of the verification switch.
func Verify(pl PosList) error {
	if pl == nil {
		return errors.Wrap(ErrPrecondition, "nil pos list")
	}
	var err error
	Resolve(pl, VisitorFuncs{
		RowIDFunc: func(l *RowIDPosList) {
			if !l.singleChunk {
				return
			}
			err = verifySingleChunk(l.rows)
		},
		MatchesAllFunc: func(l *MatchesAllPosList) {
			if l.chunkID == InvalidChunkID {
				err = errors.Wrap(ErrInvariantViolation, "matches-all list without chunk id")
			}
		},
		SingleChunkFunc: func(l *SingleChunkPosList) {
			if l.begin.DistanceTo(l.end) < 0 {
				err = errors.Wrap(ErrInvariantViolation, "reversed index range")
			}
		},
	})
	return err
}

func verifySingleChunk(rows []RowID) error {
	if len(rows) == 0 {
		return nil
	}
	common := rows[0].ChunkID
	for i, row := range rows {
		if row.ChunkID != common {
			return errors.Wrapf(ErrInvariantViolation,
				"pos list marked as referencing only chunk %d, but entry %d is %v", common, i, row)
		}
	}
	return nil
}

func debugCheckSingleChunk(rows []RowID) {
	if !VerificationEnabled() {
		return
	}
	if err := verifySingleChunk(rows); err != nil {
		panic(err)
	}
}
