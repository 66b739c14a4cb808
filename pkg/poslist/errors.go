package poslist

import (
	"github.com/pkg/errors"
)

// Every contract violation in this package panics with one of these errors
// wrapped by errors.Wrapf, so errors.Is works on the recovered value.
var (
	ErrOutOfRange         = errors.New("pos list index out of range")
	ErrPrecondition       = errors.New("pos list precondition violated")
	ErrInvariantViolation = errors.New("pos list invariant violated")
	ErrUnknownPosList     = errors.New("unknown pos list implementation")
)

func fail(err error, format string, args ...interface{}) {
	panic(errors.Wrapf(err, format, args...))
}

func checkIndex(i, size int) {
	if i < 0 || i >= size {
		fail(ErrOutOfRange, "index %d, size %d", i, size)
	}
}
