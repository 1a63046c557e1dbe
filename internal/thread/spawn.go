package thread

import (
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/atomic"
)

// ErrTooManyThreads is returned when a spawner has reached its thread limit.
var ErrTooManyThreads = errors.New("too many threads")

// Spawner creates threads of execution.
//
// Spawn starts entry on a new execution context and returns without waiting
// for it. There is no join: callers that need to know when entry finishes
// must arrange it themselves.
type Spawner interface {
	Spawn(name string, entry func()) error
}

// SpawnerFunc adapts a function to the Spawner interface.
type SpawnerFunc func(name string, entry func()) error

// Spawn calls f(name, entry).
func (f SpawnerFunc) Spawn(name string, entry func()) error {
	return f(name, entry)
}

// GoSpawner runs every entry on its own goroutine.
//
// MaxThreads bounds the total number of successful spawns over the
// spawner's lifetime; zero means unlimited. Once the bound is reached Spawn
// fails with ErrTooManyThreads, which is how callers exercise their spawn
// failure paths.
type GoSpawner struct {
	MaxThreads int

	spawned atomic.Int32
}

// Spawn starts entry on a new goroutine.
func (s *GoSpawner) Spawn(name string, entry func()) error {
	n := s.spawned.Inc()
	if s.MaxThreads > 0 && int(n) > s.MaxThreads {
		s.spawned.Dec()
		return fmt.Errorf("thread_fork %q: %w", name, ErrTooManyThreads)
	}
	go entry()
	return nil
}

// Spawned returns the number of successful spawns so far.
func (s *GoSpawner) Spawned() int {
	return int(s.spawned.Load())
}

// Yield relinquishes the current turn. It never blocks indefinitely.
func Yield() {
	runtime.Gosched()
}
