// Package spinlock implements a busy-waiting mutual-exclusion lock.
//
// A Spinlock never sleeps, so it may be taken from interrupt context. It is
// the only lock the wait channel and the sleeping primitives build on: a
// Semaphore or ConditionVariable protects its own state and its wait
// channel with one Spinlock.
//
// Unlike the pack's anonymous spinlocks, this one remembers which execution
// context holds it. Re-acquiring a held spinlock from its holder would spin
// forever, so it is reported as an assertion failure instead, and releasing
// a spinlock the caller does not hold is likewise fatal.
package spinlock

import (
	"runtime"

	"go.uber.org/atomic"

	"github.com/kolkov/kernsync/internal/kassert"
	"github.com/kolkov/kernsync/internal/thread"
)

// spinsBeforeYield bounds pure spinning before the waiter yields its turn.
// Goroutines are not pinned to CPUs; a holder that was descheduled can only
// make progress if spinners give the scheduler a chance.
const spinsBeforeYield = 64

// Spinlock is a busy-waiting lock. The zero value is unlocked.
//
// A Spinlock must not be copied after first use.
type Spinlock struct {
	// holder is the ID of the holding context, or thread.None when free.
	// The holder word is the lock word: acquiring is a CAS from None.
	holder atomic.Int64
}

// Acquire spins until the lock is held by the caller.
func (s *Spinlock) Acquire() {
	self := int64(thread.Current())
	kassert.Assertf(s.holder.Load() != self,
		"spinlock: deadlock, goroutine %d re-acquiring a held spinlock", self)

	for spins := 0; !s.holder.CompareAndSwap(int64(thread.None), self); spins++ {
		if spins >= spinsBeforeYield {
			runtime.Gosched()
			spins = 0
		}
	}
}

// Release unlocks the spinlock. The caller must hold it.
func (s *Spinlock) Release() {
	self := int64(thread.Current())
	kassert.Assertf(s.holder.Load() == self,
		"spinlock: release by goroutine %d, not the holder", self)
	s.holder.Store(int64(thread.None))
}

// DoIHold reports whether the calling context holds the spinlock.
func (s *Spinlock) DoIHold() bool {
	return s.holder.Load() == int64(thread.Current())
}

// Cleanup checks that the spinlock is free before its owner discards it.
func (s *Spinlock) Cleanup() {
	kassert.Assertf(s.holder.Load() == int64(thread.None),
		"spinlock: cleanup while held by goroutine %d", s.holder.Load())
}
