// Package kassert implements fatal assertions for usage-contract violations.
//
// A failed assertion is a programming error, not a runtime condition: it
// panics immediately with a *Violation and must never be recovered by the
// primitive that detected it. Tests recover the panic to check that a
// contract is enforced.
//
// Example:
//
//	kassert.Assert(lk.DoIHold(), "lock release by non-holder")
//	kassert.Assertf(n >= 0, "negative count %d", n)
package kassert

import "fmt"

// Violation describes a failed assertion.
type Violation struct {
	// Msg is the formatted assertion message.
	Msg string
}

// Error implements the error interface.
func (v *Violation) Error() string {
	return "assertion failed: " + v.Msg
}

// Assert panics with a *Violation carrying msg when cond is false.
func Assert(cond bool, msg string) {
	if !cond {
		panic(&Violation{Msg: msg})
	}
}

// Assertf is Assert with a formatted message.
//
// The message is only formatted on failure, so Assertf is safe to call on
// hot paths with arguments that are cheap to pass.
func Assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(&Violation{Msg: fmt.Sprintf(format, args...)})
	}
}

// Panic unconditionally raises a *Violation.
func Panic(format string, args ...any) {
	panic(&Violation{Msg: fmt.Sprintf(format, args...)})
}

// Recover converts a recovered panic value into a *Violation.
//
// It returns nil when r is nil and re-panics with r when r is anything
// other than a *Violation, so unrelated panics are never swallowed.
//
// Usage (in tests):
//
//	defer func() {
//		if v := kassert.Recover(recover()); v == nil {
//			t.Fatal("expected violation")
//		}
//	}()
func Recover(r any) *Violation {
	if r == nil {
		return nil
	}
	if v, ok := r.(*Violation); ok {
		return v
	}
	panic(r)
}
