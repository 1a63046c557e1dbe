// Package wchan implements wait channels: named queues of sleeping
// execution contexts.
//
// A WaitChannel is always used together with a Spinlock chosen by its
// owner. Every operation must be called with that spinlock held; Sleep
// releases it atomically with going to sleep and re-acquires it after
// waking, which is what lets the owner test a predicate and sleep on it
// without losing a wakeup in between.
//
// Wake order is whatever the sleeper queue yields (currently oldest first),
// but a woken sleeper competes for the spinlock with every other runnable
// context, so callers must not assume FIFO hand-off.
package wchan

import (
	"errors"
	"fmt"

	"github.com/gammazero/deque"

	"github.com/kolkov/kernsync/internal/kassert"
	"github.com/kolkov/kernsync/internal/spinlock"
	"github.com/kolkov/kernsync/internal/thread"
)

// ErrNoName is returned when a wait channel is created without a name.
var ErrNoName = errors.New("wait channel needs a name")

// WaitChannel is a queue of sleeping execution contexts.
type WaitChannel struct {
	name string

	// sleepers holds one wakeup channel per sleeping context.
	// Guarded by the owner's spinlock.
	sleepers deque.Deque[chan struct{}]
}

// New creates an empty wait channel.
//
// Returns:
//   - *WaitChannel ready for use
//   - ErrNoName if name is empty
func New(name string) (*WaitChannel, error) {
	if name == "" {
		return nil, fmt.Errorf("wchan_create: %w", ErrNoName)
	}
	return &WaitChannel{name: name}, nil
}

// Name returns the name the channel was created with.
func (wc *WaitChannel) Name() string {
	return wc.name
}

// Destroy checks that nobody is sleeping on the channel.
//
// Destroying a channel with sleepers is fatal: there is no way to tell them
// the object they wait on is gone.
func (wc *WaitChannel) Destroy() {
	kassert.Assertf(wc.sleepers.Len() == 0,
		"wchan %s: destroyed with %d sleepers", wc.name, wc.sleepers.Len())
}

// Sleep puts the calling context to sleep on the channel.
//
// The caller must hold lk. Sleep enqueues the caller, releases lk, blocks
// until woken, and re-acquires lk before returning. Because the caller is
// enqueued before lk is released, a wakeup issued by anyone who takes lk
// afterwards cannot be missed.
func (wc *WaitChannel) Sleep(lk *spinlock.Spinlock) {
	kassert.Assertf(!thread.InInterrupt(), "wchan %s: may not sleep in interrupt", wc.name)
	kassert.Assertf(lk.DoIHold(), "wchan %s: sleep without holding spinlock", wc.name)

	wake := make(chan struct{})
	wc.sleepers.PushBack(wake)

	lk.Release()
	<-wake
	lk.Acquire()
}

// WakeOne wakes one sleeper, if any. The caller must hold lk.
func (wc *WaitChannel) WakeOne(lk *spinlock.Spinlock) {
	kassert.Assertf(lk.DoIHold(), "wchan %s: wakeone without holding spinlock", wc.name)

	if wc.sleepers.Len() == 0 {
		return
	}
	close(wc.sleepers.PopFront())
}

// WakeAll wakes every sleeper. The caller must hold lk.
func (wc *WaitChannel) WakeAll(lk *spinlock.Spinlock) {
	kassert.Assertf(lk.DoIHold(), "wchan %s: wakeall without holding spinlock", wc.name)

	for wc.sleepers.Len() > 0 {
		close(wc.sleepers.PopFront())
	}
}

// IsEmpty reports whether nobody is sleeping. The caller must hold lk.
func (wc *WaitChannel) IsEmpty(lk *spinlock.Spinlock) bool {
	kassert.Assertf(lk.DoIHold(), "wchan %s: isempty without holding spinlock", wc.name)
	return wc.sleepers.Len() == 0
}

// Len returns the number of sleepers. The caller must hold lk.
func (wc *WaitChannel) Len(lk *spinlock.Spinlock) int {
	kassert.Assertf(lk.DoIHold(), "wchan %s: len without holding spinlock", wc.name)
	return wc.sleepers.Len()
}
