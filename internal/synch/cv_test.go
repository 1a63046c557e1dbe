package synch

import (
	"errors"
	"sync"
	"testing"

	"go.uber.org/atomic"

	"github.com/kolkov/kernsync/internal/thread"
	"github.com/kolkov/kernsync/internal/wchan"
)

func newCV(t *testing.T) *ConditionVariable {
	t.Helper()
	cv, err := NewCV("testcv")
	if err != nil {
		t.Fatalf("NewCV: %v", err)
	}
	return cv
}

func TestCV_CreateDestroy(t *testing.T) {
	cv := newCV(t)
	if cv.Name() != "testcv" {
		t.Errorf("Name() = %q", cv.Name())
	}
	cv.Destroy()

	if _, err := NewCV(""); !errors.Is(err, wchan.ErrNoName) {
		t.Errorf("NewCV(\"\") error = %v, want wchan.ErrNoName", err)
	}
}

func TestCV_SignalWithoutWaiters(t *testing.T) {
	cv := newCV(t)
	lk := newLock(t)

	lk.Acquire()
	cv.Signal(lk)
	cv.Broadcast(lk)
	lk.Release()

	cv.Destroy()
	lk.Destroy()
}

// TestCV_SignalWakesOne checks that one Signal releases exactly one of
// several waiters and that every waiter returns holding the lock.
func TestCV_SignalWakesOne(t *testing.T) {
	const waiters = 3
	cv := newCV(t)
	lk := newLock(t)

	var woken atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lk.Acquire()
			cv.Wait(lk)
			if !lk.DoIHold() {
				t.Error("Wait returned without the lock")
			}
			woken.Inc()
			lk.Release()
		}()
	}

	eventually(t, "waiters to sleep", func() bool { return sleepers(&cv.lock, cv.wchan) == waiters })

	lk.Acquire()
	cv.Signal(lk)
	lk.Release()

	eventually(t, "one waiter to return", func() bool { return woken.Load() == 1 })
	if n := sleepers(&cv.lock, cv.wchan); n != waiters-1 {
		t.Errorf("%d waiters still asleep after one Signal, want %d", n, waiters-1)
	}

	lk.Acquire()
	cv.Broadcast(lk)
	lk.Release()
	wg.Wait()

	if woken.Load() != waiters {
		t.Errorf("woken = %d, want %d", woken.Load(), waiters)
	}
	cv.Destroy()
	lk.Destroy()
}

// TestCV_NoLostWakeup runs a ping-pong where every handoff is a
// Signal issued right after the peer released the lock inside Wait.
func TestCV_NoLostWakeup(t *testing.T) {
	const rounds = 200
	cv := newCV(t)
	lk := newLock(t)
	defer lk.Destroy()
	defer cv.Destroy()

	turn := 0
	var wg sync.WaitGroup
	for p := 0; p < 2; p++ {
		wg.Add(1)
		go func(me int) {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				lk.Acquire()
				for turn != me {
					cv.Wait(lk)
				}
				turn = 1 - me
				cv.Signal(lk)
				lk.Release()
			}
		}(p)
	}
	wg.Wait()
}

// TestCV_BoundedBuffer is a producer/consumer monitor with Mesa re-checks.
func TestCV_BoundedBuffer(t *testing.T) {
	const (
		capacity  = 2
		producers = 4
		items     = 100
	)
	lk := newLock(t)
	notFull := newCV(t)
	notEmpty := newCV(t)

	var buf []int
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 1; i <= items; i++ {
				lk.Acquire()
				for len(buf) == capacity {
					notFull.Wait(lk)
				}
				buf = append(buf, i)
				notEmpty.Signal(lk)
				lk.Release()
			}
		}()
	}

	sum := 0
	for n := 0; n < producers*items; n++ {
		lk.Acquire()
		for len(buf) == 0 {
			notEmpty.Wait(lk)
		}
		if len(buf) > capacity {
			t.Fatalf("buffer overflow: %d items", len(buf))
		}
		sum += buf[0]
		buf = buf[1:]
		notFull.Signal(lk)
		lk.Release()
	}
	wg.Wait()

	if want := producers * items * (items + 1) / 2; sum != want {
		t.Errorf("sum = %d, want %d", sum, want)
	}
	notFull.Destroy()
	notEmpty.Destroy()
	lk.Destroy()
}

func TestCV_Violations(t *testing.T) {
	t.Run("wait without lock", func(t *testing.T) {
		cv, lk := newCV(t), newLock(t)
		mustViolate(t, "wait", func() { cv.Wait(lk) })
		cv.Destroy()
		lk.Destroy()
	})

	t.Run("signal without lock", func(t *testing.T) {
		cv, lk := newCV(t), newLock(t)
		mustViolate(t, "signal", func() { cv.Signal(lk) })
		mustViolate(t, "broadcast", func() { cv.Broadcast(lk) })
		cv.Destroy()
		lk.Destroy()
	})

	t.Run("nil lock", func(t *testing.T) {
		cv := newCV(t)
		mustViolate(t, "wait(nil)", func() { cv.Wait(nil) })
		mustViolate(t, "signal(nil)", func() { cv.Signal(nil) })
		cv.Destroy()
	})

	t.Run("wait in interrupt", func(t *testing.T) {
		cv, lk := newCV(t), newLock(t)
		lk.Acquire()
		thread.RunAsInterrupt(func() {
			mustViolate(t, "wait in interrupt", func() { cv.Wait(lk) })
		})
		if !lk.DoIHold() {
			t.Error("rejected Wait dropped the lock")
		}
		lk.Release()
		cv.Destroy()
		lk.Destroy()
	})

	t.Run("destroy with waiter", func(t *testing.T) {
		cv, lk := newCV(t), newLock(t)
		done := make(chan struct{})
		go func() {
			lk.Acquire()
			cv.Wait(lk)
			lk.Release()
			close(done)
		}()
		eventually(t, "waiter to sleep", func() bool { return sleepers(&cv.lock, cv.wchan) == 1 })

		mustViolate(t, "destroy with waiter", cv.Destroy)

		lk.Acquire()
		cv.Signal(lk)
		lk.Release()
		<-done
		cv.Destroy()
		lk.Destroy()
	})
}
