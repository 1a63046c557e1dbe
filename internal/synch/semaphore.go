package synch

import (
	"fmt"

	"github.com/kolkov/kernsync/internal/kassert"
	"github.com/kolkov/kernsync/internal/spinlock"
	"github.com/kolkov/kernsync/internal/thread"
	"github.com/kolkov/kernsync/internal/wchan"
)

// Semaphore is a counting semaphore.
//
// The count is the number of available permits and never goes below zero.
// The spinlock protects both the count and the wait channel.
type Semaphore struct {
	name  string
	lock  spinlock.Spinlock
	wchan *wchan.WaitChannel
	count uint
}

// NewSemaphore creates a semaphore holding initial permits.
//
// Parameters:
//   - name: Name of the semaphore (also names its wait channel)
//   - initial: Initial number of permits, may be zero
//
// Returns:
//   - *Semaphore ready for use
//   - error if the wait channel cannot be created
func NewSemaphore(name string, initial uint) (*Semaphore, error) {
	wc, err := wchan.New(name)
	if err != nil {
		return nil, fmt.Errorf("sem_create: %w", err)
	}
	return &Semaphore{
		name:  name,
		wchan: wc,
		count: initial,
	}, nil
}

// Name returns the semaphore's name.
func (s *Semaphore) Name() string {
	return s.name
}

// Destroy releases the semaphore.
//
// Nobody may be blocked in Down; the wait channel asserts that.
func (s *Semaphore) Destroy() {
	kassert.Assert(s != nil, "sem_destroy: nil semaphore")

	s.lock.Cleanup()
	s.wchan.Destroy()
}

// Down (P) takes one permit, sleeping while none is available.
//
// Down may not be called in interrupt context. This is checked on every
// call, even when a permit is available and Down would not block.
//
// No FIFO ordering is maintained: a context calling Down may take a permit
// on its first try even though other contexts are already sleeping for one.
func (s *Semaphore) Down() {
	kassert.Assert(s != nil, "P: nil semaphore")
	kassert.Assert(!thread.InInterrupt(), "P: may not block in interrupt")

	s.lock.Acquire()
	for s.count == 0 {
		s.wchan.Sleep(&s.lock)
	}
	kassert.Assert(s.count > 0, "P: woke with no permit")
	s.count--
	s.lock.Release()
}

// testHookUp, if set, is called by Up with the spinlock held, just after
// the permit is returned. Set only by tests, before any goroutine uses the
// package.
var testHookUp func(s *Semaphore)

// Up (V) returns one permit and wakes one sleeper, if any.
//
// Up never sleeps and may be called in interrupt context.
func (s *Semaphore) Up() {
	kassert.Assert(s != nil, "V: nil semaphore")

	s.lock.Acquire()
	s.count++
	kassert.Assert(s.count > 0, "V: count overflow")
	if testHookUp != nil {
		testHookUp(s)
	}
	s.wchan.WakeOne(&s.lock)
	s.lock.Release()
}

// Count returns the current number of permits.
//
// The value may be stale by the time the caller looks at it; it is meant for
// tests and diagnostics.
func (s *Semaphore) Count() uint {
	s.lock.Acquire()
	defer s.lock.Release()
	return s.count
}
