package util

import (
	"sync"

	"github.com/petermattis/goid"
)

// ReentryLock is a mutex the owning goroutine may acquire repeatedly.
// Each Lock must be paired with one Unlock.
type ReentryLock struct {
	mu    sync.Mutex
	cond  *sync.Cond
	owner int64
	count uint64
}

func NewReentryLock() *ReentryLock {
	lock := &ReentryLock{}
	lock.cond = sync.NewCond(&lock.mu)
	return lock
}

func (lock *ReentryLock) Lock() {
	rid := goid.Get()
	lock.mu.Lock()
	defer lock.mu.Unlock()
	if lock.owner == rid {
		lock.count++
		return
	}
	for lock.owner != 0 {
		lock.cond.Wait()
	}
	lock.owner = rid
	lock.count = 1
}

func (lock *ReentryLock) Unlock() {
	rid := goid.Get()
	release := false
	lock.mu.Lock()
	defer func() {
		lock.mu.Unlock()
		if release {
			lock.cond.Signal()
		}
	}()

	if lock.count == 0 || lock.owner != rid {
		panic("unlock of unlocked mutex")
	}
	lock.count--
	if lock.count == 0 {
		lock.owner = 0
		release = true
	}
}

// HeldByMe reports whether the calling goroutine owns the lock.
func (lock *ReentryLock) HeldByMe() bool {
	rid := goid.Get()
	lock.mu.Lock()
	defer lock.mu.Unlock()
	return lock.owner == rid && lock.count > 0
}

var _ sync.Locker = (*ReentryLock)(nil)
