package synch

import (
	"errors"
	"sync"
	"testing"

	"go.uber.org/atomic"

	"github.com/kolkov/kernsync/internal/thread"
	"github.com/kolkov/kernsync/internal/wchan"
)

func newLock(t *testing.T) *Lock {
	t.Helper()
	lk, err := NewLock("testlock")
	if err != nil {
		t.Fatalf("NewLock: %v", err)
	}
	return lk
}

func TestLock_CreateDestroy(t *testing.T) {
	lk := newLock(t)
	if lk.Name() != "testlock" {
		t.Errorf("Name() = %q", lk.Name())
	}
	if lk.DoIHold() {
		t.Error("new lock reports held")
	}
	lk.Destroy()

	if _, err := NewLock(""); !errors.Is(err, wchan.ErrNoName) {
		t.Errorf("NewLock(\"\") error = %v, want wchan.ErrNoName", err)
	}
}

func TestLock_AcquireRelease(t *testing.T) {
	lk := newLock(t)
	defer lk.Destroy()

	lk.Acquire()
	if !lk.DoIHold() {
		t.Error("DoIHold() false after Acquire")
	}
	if lk.sem.Count() != 0 {
		t.Errorf("permit count %d while held, want 0", lk.sem.Count())
	}

	other := make(chan bool)
	go func() { other <- lk.DoIHold() }()
	if <-other {
		t.Error("non-holder reports DoIHold() true")
	}

	lk.Release()
	if lk.DoIHold() {
		t.Error("DoIHold() true after Release")
	}
	if lk.sem.Count() != 1 {
		t.Errorf("permit count %d after release, want 1", lk.sem.Count())
	}
}

func TestLock_MutualExclusion(t *testing.T) {
	const goroutines = 10
	const iterations = 200

	lk := newLock(t)
	defer lk.Destroy()

	var inside atomic.Int32
	counter := 0
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				lk.Acquire()
				if n := inside.Inc(); n != 1 {
					t.Errorf("%d holders inside critical section", n)
				}
				if !lk.DoIHold() {
					t.Error("holder lost DoIHold inside critical section")
				}
				counter++
				inside.Dec()
				lk.Release()
			}
		}()
	}
	wg.Wait()

	if counter != goroutines*iterations {
		t.Errorf("counter = %d, want %d", counter, goroutines*iterations)
	}
}

// TestLock_BlocksUntilRelease checks that a waiter stays asleep while the
// holder keeps the lock and sees itself as holder once it gets it.
func TestLock_BlocksUntilRelease(t *testing.T) {
	lk := newLock(t)
	defer lk.Destroy()

	lk.Acquire()

	acquired := make(chan struct{})
	sawHolder := make(chan bool, 1)
	go func() {
		lk.Acquire()
		close(acquired)
		sawHolder <- lk.DoIHold()
		lk.Release()
	}()

	eventually(t, "waiter to sleep", func() bool { return sleepers(&lk.sem.lock, lk.sem.wchan) == 1 })
	if !stillBlocked(acquired) {
		t.Fatal("second Acquire succeeded while lock held")
	}

	lk.Release()
	<-acquired
	if !<-sawHolder {
		t.Error("new holder does not see itself as holder")
	}
}

// TestLock_HolderClearedBeforeUp checks that Release clears the holder
// before the permit goes back. Otherwise a context woken by the permit could
// record itself as holder and then be overwritten by the releaser.
func TestLock_HolderClearedBeforeUp(t *testing.T) {
	lk := newLock(t)
	defer lk.Destroy()

	var ups, stale atomic.Int32
	testHookUp = func(s *Semaphore) {
		if s != lk.sem {
			return
		}
		ups.Inc()
		if thread.ID(lk.holder.Load()) != thread.None {
			stale.Inc()
		}
	}
	t.Cleanup(func() { testHookUp = nil })

	for i := 0; i < 3; i++ {
		lk.Acquire()
		lk.Release()
	}

	// Same with a waiter asleep on the permit.
	lk.Acquire()
	acquired := make(chan struct{})
	release := make(chan struct{})
	done := make(chan bool)
	go func() {
		lk.Acquire()
		close(acquired)
		<-release
		held := lk.DoIHold()
		lk.Release()
		done <- held
	}()
	eventually(t, "waiter asleep", func() bool {
		return sleepers(&lk.sem.lock, lk.sem.wchan) == 1
	})
	lk.Release()
	<-acquired
	close(release)
	if !<-done {
		t.Error("woken waiter does not hold the lock")
	}

	if got := ups.Load(); got != 5 {
		t.Errorf("hook saw %d permit returns, want 5", got)
	}
	if got := stale.Load(); got != 0 {
		t.Errorf("%d permits returned while the holder was still set", got)
	}
}

func TestLock_Violations(t *testing.T) {
	t.Run("release unheld", func(t *testing.T) {
		lk := newLock(t)
		defer lk.Destroy()
		mustViolate(t, "release of unheld lock", lk.Release)
	})

	t.Run("double release", func(t *testing.T) {
		lk := newLock(t)
		defer lk.Destroy()
		lk.Acquire()
		lk.Release()
		mustViolate(t, "double release", lk.Release)
		if lk.sem.Count() != 1 {
			t.Errorf("double release changed permit count to %d", lk.sem.Count())
		}
	})

	t.Run("release by non-holder", func(t *testing.T) {
		lk := newLock(t)
		defer lk.Destroy()
		lk.Acquire()
		done := make(chan struct{})
		go func() {
			defer close(done)
			mustViolate(t, "foreign release", lk.Release)
		}()
		<-done
		lk.Release()
	})

	t.Run("destroy while held", func(t *testing.T) {
		lk := newLock(t)
		lk.Acquire()
		mustViolate(t, "destroy held lock", lk.Destroy)
		lk.Release()
		lk.Destroy()
	})

	t.Run("acquire in interrupt", func(t *testing.T) {
		lk := newLock(t)
		defer lk.Destroy()
		thread.RunAsInterrupt(func() {
			mustViolate(t, "acquire in interrupt", lk.Acquire)
		})
	})

	t.Run("nil lock", func(t *testing.T) {
		var lk *Lock
		mustViolate(t, "acquire(nil)", lk.Acquire)
		mustViolate(t, "release(nil)", lk.Release)
		mustViolate(t, "do_i_hold(nil)", func() { lk.DoIHold() })
	})
}

func BenchmarkLock_AcquireRelease(b *testing.B) {
	lk, _ := NewLock("bench")
	defer lk.Destroy()
	for i := 0; i < b.N; i++ {
		lk.Acquire()
		lk.Release()
	}
}
