// Package kern provides kernel-style synchronization primitives built on
// goroutines, and the air balloon exercise that puts them under contention.
//
// # Quick Start
//
//	lk, err := kern.NewLock("counter")
//	if err != nil {
//		return err
//	}
//	defer lk.Destroy()
//
//	lk.Acquire()
//	counter++
//	lk.Release()
//
// # API Overview
//
// The package provides:
//   - Counting semaphores: [NewSemaphore] (Down/Up)
//   - Locks with holder tracking: [NewLock] (Acquire/Release/DoIHold)
//   - Mesa-style condition variables: [NewCV] (Wait/Signal/Broadcast)
//   - The coordination exercise: [RunAirballoon]
//   - Version information: [GetInfo], [Satisfies]
//
// # Contracts
//
// The primitives enforce their usage contracts with assertions that panic:
// destroying a primitive someone is waiting on, releasing a lock the caller
// does not hold, or waiting on a condition variable without holding its
// lock are programming errors, not conditions to handle.
//
// Locks are not re-entrant, semaphore wakeup is not FIFO, and a context
// woken from Wait must re-check its condition.
//
// # Examples
//
// See package-level examples in the documentation:
//   - [Example] - Lock around a shared counter
//   - [Example_monitor] - Condition variable with a predicate loop
//   - [ExampleRunAirballoon] - Running the exercise
package kern
