package airballoon

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"

	"github.com/kolkov/kernsync/internal/thread"
)

// Scenario sizing defaults.
const (
	// DefaultRopes is the number of ropes holding the balloon.
	DefaultRopes = 16

	// DefaultSwappers is the number of Lord FlowerKiller actors.
	DefaultSwappers = 8
)

// ErrInvalidConfig is returned by Run for unusable configurations.
var ErrInvalidConfig = errors.New("invalid airballoon config")

// JoinStrategy selects how the driver waits for the actors to exit.
type JoinStrategy int

const (
	// JoinPoll busy-polls the exit counters, yielding between polls.
	JoinPoll JoinStrategy = iota

	// JoinCond sleeps on a condition variable that every exit broadcasts.
	JoinCond
)

// String returns the flag spelling of the strategy.
func (j JoinStrategy) String() string {
	switch j {
	case JoinPoll:
		return "poll"
	case JoinCond:
		return "cond"
	default:
		return fmt.Sprintf("JoinStrategy(%d)", int(j))
	}
}

// ParseJoin parses "poll" or "cond".
func ParseJoin(s string) (JoinStrategy, error) {
	switch s {
	case "poll":
		return JoinPoll, nil
	case "cond":
		return JoinCond, nil
	default:
		return 0, fmt.Errorf("%w: unknown join strategy %q (want poll or cond)", ErrInvalidConfig, s)
	}
}

// Hooks observe the scenario from inside critical sections.
//
// Hooks run while the actor holds scenario locks. They must not block and
// must not call back into the scenario.
type Hooks struct {
	// Severed is called when role severs the rope with the given hook,
	// while the rope lock and the count lock are held.
	Severed func(role Role, rope int)

	// SwapLock is called by a swapper just before it locks ropes lo and
	// hi, in that order.
	SwapLock func(lo, hi int)
}

// Config describes one run of the scenario.
type Config struct {
	// Ropes is the number of ropes; at least 1.
	Ropes int

	// Swappers is the number of Lord FlowerKiller actors; may be 0.
	Swappers int

	// Join selects the driver's join strategy.
	Join JoinStrategy

	// Spawner creates actor threads. Nil means an unlimited GoSpawner.
	Spawner thread.Spawner

	// Rand returns a uniformly distributed int in [0, n) and must be safe
	// for concurrent use. Nil means math/rand/v2.IntN.
	Rand func(n int) int

	// Out receives the scenario log. Nil discards it.
	Out io.Writer

	Hooks Hooks
}

// DefaultConfig returns the classic setup: 16 ropes, 8 swappers, polling
// join, log discarded.
func DefaultConfig() Config {
	return Config{
		Ropes:    DefaultRopes,
		Swappers: DefaultSwappers,
		Join:     JoinPoll,
	}
}

// withDefaults fills nil collaborators.
func (c Config) withDefaults() Config {
	if c.Spawner == nil {
		c.Spawner = &thread.GoSpawner{}
	}
	if c.Rand == nil {
		c.Rand = rand.IntN
	}
	if c.Out == nil {
		c.Out = io.Discard
	}
	return c
}

func (c Config) validate() error {
	if c.Ropes < 1 {
		return fmt.Errorf("%w: need at least one rope, got %d", ErrInvalidConfig, c.Ropes)
	}
	if c.Swappers < 0 {
		return fmt.Errorf("%w: negative swapper count %d", ErrInvalidConfig, c.Swappers)
	}
	if c.Join != JoinPoll && c.Join != JoinCond {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, c.Join)
	}
	return nil
}

// SeededRand returns a deterministic random source for Config.Rand.
//
// The source is shared by all actors, so calls are serialized. Thread
// interleaving still makes runs nondeterministic; the seed only fixes the
// sequence of numbers handed out.
func SeededRand(seed uint64) func(n int) int {
	var mu sync.Mutex
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func(n int) int {
		mu.Lock()
		defer mu.Unlock()
		return r.IntN(n)
	}
}
