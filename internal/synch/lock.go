package synch

import (
	"fmt"

	"go.uber.org/atomic"

	"github.com/kolkov/kernsync/internal/kassert"
	"github.com/kolkov/kernsync/internal/thread"
)

// Lock is a sleeping mutual-exclusion lock that records its holder.
//
// Invariant: while the lock is held, holder names the holding context and
// the semaphore count is zero. The holder is written only by the context
// that owns the permit: set after Down succeeds, cleared before Up.
//
// Locks are not re-entrant. A holder that calls Acquire again sleeps on its
// own permit forever.
type Lock struct {
	name   string
	sem    *Semaphore
	holder atomic.Int64
}

// NewLock creates an unheld lock.
//
// Returns:
//   - *Lock ready for use
//   - error if the underlying semaphore cannot be created
func NewLock(name string) (*Lock, error) {
	sem, err := NewSemaphore(name, 1)
	if err != nil {
		return nil, fmt.Errorf("lock_create: %w", err)
	}
	return &Lock{name: name, sem: sem}, nil
}

// Name returns the lock's name.
func (l *Lock) Name() string {
	return l.name
}

// Destroy releases the lock. Destroying a held lock is fatal.
func (l *Lock) Destroy() {
	kassert.Assert(l != nil, "lock_destroy: nil lock")
	kassert.Assertf(thread.ID(l.holder.Load()) == thread.None,
		"lock_destroy %s: held by goroutine %d", l.name, l.holder.Load())

	l.sem.Destroy()
}

// Acquire takes the lock, sleeping until it is free.
func (l *Lock) Acquire() {
	kassert.Assert(l != nil, "lock_acquire: nil lock")

	l.sem.Down()
	l.holder.Store(int64(thread.Current()))
}

// Release gives the lock up. Only the holder may release.
//
// The holder is cleared before the permit is returned, so a context that
// wakes up holding the permit never sees a stale holder.
func (l *Lock) Release() {
	kassert.Assert(l != nil, "lock_release: nil lock")
	kassert.Assertf(l.DoIHold(), "lock_release %s: not held by caller", l.name)

	l.holder.Store(int64(thread.None))
	l.sem.Up()
}

// DoIHold reports whether the calling context holds the lock.
//
// Use it in assertions only. The answer for any context other than the
// holder can change right after it is computed.
func (l *Lock) DoIHold() bool {
	kassert.Assert(l != nil, "lock_do_i_hold: nil lock")
	return thread.ID(l.holder.Load()) == thread.Current()
}
