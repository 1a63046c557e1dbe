// Package synch implements the sleeping synchronization primitives:
// counting semaphores, locks, and condition variables.
//
// All three are built on a spinlock and a wait channel. Semaphore is the
// foundation; Lock is a Semaphore with an initial count of one plus
// ownership tracking; ConditionVariable uses its own spinlock and wait
// channel and knows nothing about Lock internals beyond Acquire, Release
// and DoIHold.
//
// Key Concepts:
//
// Blocking:
//   - Semaphore.Down sleeps while the count is zero
//   - ConditionVariable.Wait always sleeps
//   - Lock.Acquire sleeps only through Semaphore.Down
//   - Up, Signal, Broadcast and Release never sleep
//
// Ordering:
//   - Semaphore wakeup is not FIFO: a newly arriving Down may take the permit
//     ahead of a context that was woken for it
//   - Condition variables have Mesa semantics: re-check the predicate in a
//     loop after Wait returns
//
// Lifecycle:
//   - Constructors return an error if a wait channel cannot be created
//   - Destroy asserts that nobody is waiting (and, for Lock, that nobody
//     holds it); violating that is fatal
//
// Example (monitor discipline):
//
//	lk.Acquire()
//	for !ready {
//		cv.Wait(lk)
//	}
//	// ready is true and lk is held
//	lk.Release()
package synch
