package thread

import "sync"

// interrupts maps an ID to its interrupt nesting depth (int).
//
// Only the goroutine named by the key ever writes its own entry, so the
// sync.Map never sees contended writes on one key.
var interrupts sync.Map

// InInterrupt reports whether the calling execution context is running in
// interrupt context, where blocking is not allowed.
func InInterrupt() bool {
	_, ok := interrupts.Load(Current())
	return ok
}

// RunAsInterrupt runs fn with the calling execution context marked as being
// in interrupt context. Calls may nest; the mark is cleared when the
// outermost call returns, including when fn panics.
//
// Example:
//
//	thread.RunAsInterrupt(func() {
//		sem.Up()   // allowed
//		sem.Down() // assertion failure: may not block in interrupt
//	})
func RunAsInterrupt(fn func()) {
	id := Current()
	depth := 0
	if v, ok := interrupts.Load(id); ok {
		depth = v.(int)
	}
	interrupts.Store(id, depth+1)
	defer func() {
		if depth == 0 {
			interrupts.Delete(id)
		} else {
			interrupts.Store(id, depth)
		}
	}()
	fn()
}
