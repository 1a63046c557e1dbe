// Package lockorder validates that locks are taken in a global order.
//
// Every lock registered with a Checker carries a rank. A context may only
// acquire a lock whose rank is strictly greater than the rank of every lock
// it already holds. If all code obeys this, no cycle of contexts each
// waiting for a lock held by the next can form, so lock-order deadlock is
// impossible. The Checker turns a violation of the order into an immediate
// assertion failure instead of an occasional hang.
//
// The validator is implemented in a very straightforward way: for each
// context it keeps the ranks it currently holds, in acquisition order.
// Because acquisitions are strictly increasing, the last entry is the
// maximum.
//
// Example:
//
//	c := lockorder.New("ropes")
//	a := c.Wrap(lockA, 1)
//	b := c.Wrap(lockB, 2)
//	a.Acquire()
//	b.Acquire() // ok: 2 > 1
//	b.Release()
//	a.Release()
//
//	b.Acquire()
//	a.Acquire() // assertion failure: 1 after 2
package lockorder

import (
	"sync"

	"github.com/kolkov/kernsync/internal/kassert"
	"github.com/kolkov/kernsync/internal/synch"
	"github.com/kolkov/kernsync/internal/thread"
)

// Checker tracks the ranks held by each context.
type Checker struct {
	name string

	// held maps thread.ID to *[]int. Only the context named by the key
	// touches its own slice.
	held sync.Map
}

// New creates a checker with no registered holders.
func New(name string) *Checker {
	return &Checker{name: name}
}

func (c *Checker) stack() *[]int {
	id := thread.Current()
	if v, ok := c.held.Load(id); ok {
		return v.(*[]int)
	}
	s := new([]int)
	c.held.Store(id, s)
	return s
}

// Acquire records that the caller is about to take a lock of the given rank.
// It must be called before the lock's own Acquire, so a misordered
// acquisition fails before it can block.
func (c *Checker) Acquire(rank int) {
	s := c.stack()
	if n := len(*s); n > 0 {
		top := (*s)[n-1]
		kassert.Assertf(rank > top,
			"lockorder %s: rank %d acquired while holding rank %d", c.name, rank, top)
	}
	*s = append(*s, rank)
}

// Release records that the caller released a lock of the given rank.
// Locks may be released in any order.
func (c *Checker) Release(rank int) {
	id := thread.Current()
	v, ok := c.held.Load(id)
	kassert.Assertf(ok, "lockorder %s: release of rank %d with nothing held", c.name, rank)

	s := v.(*[]int)
	for i, r := range *s {
		if r == rank {
			*s = append((*s)[:i], (*s)[i+1:]...)
			if len(*s) == 0 {
				c.held.Delete(id)
			}
			return
		}
	}
	kassert.Panic("lockorder %s: release of rank %d not held", c.name, rank)
}

// Held returns the ranks the caller holds, in acquisition order.
func (c *Checker) Held() []int {
	v, ok := c.held.Load(thread.Current())
	if !ok {
		return nil
	}
	return append([]int(nil), *v.(*[]int)...)
}

// AssertNoneHeld fails if the caller holds any ranked lock.
func (c *Checker) AssertNoneHeld(where string) {
	held := c.Held()
	kassert.Assertf(len(held) == 0,
		"lockorder %s: %s while holding ranks %v", c.name, where, held)
}

// Lock is a synch.Lock whose acquisitions are validated by a Checker.
type Lock struct {
	*synch.Lock

	rank    int
	checker *Checker
}

// Wrap registers lk with the checker under rank.
func (c *Checker) Wrap(lk *synch.Lock, rank int) *Lock {
	return &Lock{Lock: lk, rank: rank, checker: c}
}

// Rank returns the lock's rank.
func (l *Lock) Rank() int {
	return l.rank
}

// Acquire validates the order and takes the lock.
func (l *Lock) Acquire() {
	l.checker.Acquire(l.rank)
	l.Lock.Acquire()
}

// Release releases the lock and drops it from the caller's held set.
func (l *Lock) Release() {
	l.Lock.Release()
	l.checker.Release(l.rank)
}
