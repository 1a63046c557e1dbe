package synch

import (
	"testing"
	"time"

	"github.com/kolkov/kernsync/internal/kassert"
	"github.com/kolkov/kernsync/internal/spinlock"
	"github.com/kolkov/kernsync/internal/thread"
	"github.com/kolkov/kernsync/internal/wchan"
)

// mustViolate fails the test unless fn raises an assertion failure.
func mustViolate(t *testing.T, what string, fn func()) {
	t.Helper()
	defer func() {
		if v := kassert.Recover(recover()); v == nil {
			t.Errorf("%s: expected assertion failure", what)
		}
	}()
	fn()
}

// eventually polls cond until it holds or the deadline passes.
func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		thread.Yield()
	}
}

// stillBlocked reports whether ch stays empty for a short grace period.
func stillBlocked(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return false
	case <-time.After(50 * time.Millisecond):
		return true
	}
}

// sleepers counts contexts asleep on wc, taking lk to look.
func sleepers(lk *spinlock.Spinlock, wc *wchan.WaitChannel) int {
	lk.Acquire()
	defer lk.Release()
	return wc.Len(lk)
}
