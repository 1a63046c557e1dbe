// Package thread provides the execution-context services the synchronization
// primitives consume from their runtime: context identity, interrupt-context
// tracking, voluntary yield, and thread creation.
//
// Execution contexts are goroutines. A goroutine's identity is its runtime
// goroutine ID, which is stable for the goroutine's lifetime and never reused
// while the goroutine is alive. That is enough for holder tracking: a lock
// records the ID of the goroutine that acquired it and compares against
// [Current] on release.
//
// Key Concepts:
//
// Identity:
//   - [Current] returns the calling goroutine's [ID]
//   - [None] is the zero ID and never names a live goroutine
//
// Interrupt context:
//   - [RunAsInterrupt] runs a function with the calling goroutine marked as
//     being in interrupt context
//   - [InInterrupt] reports the mark; blocking primitives assert it is clear
//
// Scheduling:
//   - [Yield] relinquishes the current turn without blocking
//   - [Spawner] creates threads; [GoSpawner] runs each entry on a new goroutine
package thread
