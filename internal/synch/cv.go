package synch

import (
	"fmt"

	"github.com/kolkov/kernsync/internal/kassert"
	"github.com/kolkov/kernsync/internal/spinlock"
	"github.com/kolkov/kernsync/internal/thread"
	"github.com/kolkov/kernsync/internal/wchan"
)

// ConditionVariable lets contexts sleep until another context signals that
// a condition may have changed.
//
// The condition and the Lock that guards it belong to the caller; the
// variable itself only queues sleepers. Semantics are Mesa-style.
type ConditionVariable struct {
	name  string
	lock  spinlock.Spinlock
	wchan *wchan.WaitChannel
}

// NewCV creates a condition variable with no waiters.
func NewCV(name string) (*ConditionVariable, error) {
	wc, err := wchan.New(name)
	if err != nil {
		return nil, fmt.Errorf("cv_create: %w", err)
	}
	return &ConditionVariable{name: name, wchan: wc}, nil
}

// Name returns the condition variable's name.
func (cv *ConditionVariable) Name() string {
	return cv.name
}

// Destroy releases the condition variable. Waiters must not remain.
func (cv *ConditionVariable) Destroy() {
	kassert.Assert(cv != nil, "cv_destroy: nil cv")

	cv.lock.Cleanup()
	cv.wchan.Destroy()
}

// Wait releases lk, sleeps until signalled, and re-acquires lk.
//
// The caller must hold lk. The internal spinlock is taken before lk is
// released, and a signaller must take the same spinlock, so a Signal that
// follows the release cannot run before the caller is on the wait channel.
//
// Wait returns with lk held. The condition may already be false again.
func (cv *ConditionVariable) Wait(lk *Lock) {
	kassert.Assert(cv != nil, "cv_wait: nil cv")
	kassert.Assert(lk != nil, "cv_wait: nil lock")
	kassert.Assert(!thread.InInterrupt(), "cv_wait: may not block in interrupt")
	kassert.Assertf(lk.DoIHold(), "cv_wait %s: lock %s not held", cv.name, lk.Name())

	cv.lock.Acquire()
	lk.Release()

	cv.wchan.Sleep(&cv.lock)

	// The spinlock must be dropped before sleeping on lk.
	cv.lock.Release()
	lk.Acquire()
}

// Signal wakes at most one waiter.
//
// The caller must hold lk, the lock guarding the condition.
func (cv *ConditionVariable) Signal(lk *Lock) {
	kassert.Assert(cv != nil, "cv_signal: nil cv")
	kassert.Assert(lk != nil, "cv_signal: nil lock")
	kassert.Assertf(lk.DoIHold(), "cv_signal %s: lock %s not held", cv.name, lk.Name())

	cv.lock.Acquire()
	cv.wchan.WakeOne(&cv.lock)
	cv.lock.Release()
}

// Broadcast wakes every waiter.
//
// The caller must hold lk, the lock guarding the condition.
func (cv *ConditionVariable) Broadcast(lk *Lock) {
	kassert.Assert(cv != nil, "cv_broadcast: nil cv")
	kassert.Assert(lk != nil, "cv_broadcast: nil lock")
	kassert.Assertf(lk.DoIHold(), "cv_broadcast %s: lock %s not held", cv.name, lk.Name())

	cv.lock.Acquire()
	cv.wchan.WakeAll(&cv.lock)
	cv.lock.Release()
}
