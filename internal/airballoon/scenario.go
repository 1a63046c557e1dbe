package airballoon

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/atomic"

	"github.com/kolkov/kernsync/internal/lockorder"
	"github.com/kolkov/kernsync/internal/synch"
	"github.com/kolkov/kernsync/internal/thread"
)

// rope connects a balloon hook to a ground stake.
type rope struct {
	hook int // immutable

	// Guarded by lock. Only swappers change stake.
	stake     int
	connected bool

	lock *lockorder.Lock
}

// logger serializes scenario output through the print lock.
type logger struct {
	lock *lockorder.Lock
	w    io.Writer
}

// printf writes one line.
func (l *logger) printf(format string, args ...any) {
	l.lock.Acquire()
	fmt.Fprintf(l.w, format+"\n", args...)
	l.lock.Release()
}

// lines writes several lines under one acquisition of the print lock, so no
// other actor's output lands between them.
func (l *logger) lines(lines ...string) {
	l.lock.Acquire()
	_, _ = io.WriteString(l.w, strings.Join(lines, "\n")+"\n")
	l.lock.Release()
}

// scenario is the state shared by the driver and all actors.
type scenario struct {
	cfg     Config
	checker *lockorder.Checker

	ropes []*rope

	// count guards ropesLeft.
	count     *lockorder.Lock
	ropesLeft int

	log *logger

	// gate holds actors back until every spawn has succeeded.
	gate    *synch.Semaphore
	aborted atomic.Bool
	spawned int

	join joiner
}

// newScenario creates the rope table and every lock. On failure whatever
// was created is destroyed before returning.
func newScenario(cfg Config) (_ *scenario, err error) {
	s := &scenario{
		cfg:       cfg,
		checker:   lockorder.New("airballoon"),
		ropesLeft: cfg.Ropes,
	}
	defer func() {
		if err != nil {
			s.destroy()
		}
	}()

	n := cfg.Ropes
	s.ropes = make([]*rope, 0, n)
	for i := 0; i < n; i++ {
		lk, err := synch.NewLock(fmt.Sprintf("Rope lock %d", i))
		if err != nil {
			return nil, err
		}
		s.ropes = append(s.ropes, &rope{
			hook:      i,
			stake:     i,
			connected: true,
			lock:      s.checker.Wrap(lk, i),
		})
	}

	countLock, err := synch.NewLock("Count lock")
	if err != nil {
		return nil, err
	}
	s.count = s.checker.Wrap(countLock, n)

	printLock, err := synch.NewLock("Print lock")
	if err != nil {
		return nil, err
	}
	s.log = &logger{lock: s.checker.Wrap(printLock, n+1), w: cfg.Out}

	if s.gate, err = synch.NewSemaphore("Start gate", 0); err != nil {
		return nil, err
	}
	if s.join, err = newJoiner(cfg.Join); err != nil {
		return nil, err
	}
	return s, nil
}

// destroy tears down every primitive that exists. All actors must have
// exited.
func (s *scenario) destroy() {
	if s.join != nil {
		s.join.destroy()
	}
	if s.gate != nil {
		s.gate.Destroy()
	}
	if s.log != nil {
		s.log.lock.Destroy()
	}
	if s.count != nil {
		s.count.Destroy()
	}
	for _, r := range s.ropes {
		r.lock.Destroy()
	}
	s.ropes = nil
}

// remaining reads the ropes-left count under the count lock.
func (s *scenario) remaining() int {
	s.count.Acquire()
	n := s.ropesLeft
	s.count.Release()
	return n
}

// pick returns a random rope index.
func (s *scenario) pick() int {
	return s.cfg.Rand(len(s.ropes))
}

// yield gives up the turn. Actors never yield while holding a lock.
func (s *scenario) yield() {
	s.checker.AssertNoneHeld("yield")
	thread.Yield()
}

// spawn starts an actor behind the start gate.
func (s *scenario) spawn(role Role, name string, body func()) error {
	err := s.cfg.Spawner.Spawn(name, func() {
		s.gate.Down()
		if !s.aborted.Load() {
			body()
		}
		s.checker.AssertNoneHeld("exit")
		s.join.done(role)
	})
	if err != nil {
		return fmt.Errorf("spawn %s: %w", role, err)
	}
	s.join.expect(role)
	s.spawned++
	return nil
}

// spawnAll starts every actor, stopping at the first failure.
func (s *scenario) spawnAll() error {
	if err := s.spawn(RoleMarigold, "Marigold Thread", s.marigold); err != nil {
		return err
	}
	if err := s.spawn(RoleDandelion, "Dandelion Thread", s.dandelion); err != nil {
		return err
	}
	for i := 0; i < s.cfg.Swappers; i++ {
		if err := s.spawn(RoleFlowerKiller, "Lord FlowerKiller Thread", s.flowerkiller); err != nil {
			return err
		}
	}
	return s.spawn(RoleBalloon, "Air Balloon", s.balloon)
}

// start opens the gate for every spawned actor.
func (s *scenario) start() {
	for i := 0; i < s.spawned; i++ {
		s.gate.Up()
	}
}

// snapshot copies the rope table.
func (s *scenario) snapshot() []RopeState {
	out := make([]RopeState, len(s.ropes))
	for i, r := range s.ropes {
		r.lock.Acquire()
		out[i] = RopeState{Hook: r.hook, Stake: r.stake, Connected: r.connected}
		r.lock.Release()
	}
	return out
}
