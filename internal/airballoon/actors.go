package airballoon

import (
	"fmt"

	"github.com/kolkov/kernsync/internal/kassert"
)

// dandelion severs ropes by hook.
func (s *scenario) dandelion() {
	s.cut(RoleDandelion, func(r *rope) string {
		return fmt.Sprintf("Dandelion severed rope %d", r.hook)
	})
}

// marigold severs ropes by stake.
func (s *scenario) marigold() {
	s.cut(RoleMarigold, func(r *rope) string {
		return fmt.Sprintf("Marigold severed rope %d from stake %d", r.hook, r.stake)
	})
}

// cut is the cutter loop shared by Dandelion and Marigold.
func (s *scenario) cut(role Role, describe func(r *rope) string) {
	s.log.printf("%s thread starting", role)

	for s.remaining() > 0 {
		r := s.ropes[s.pick()]

		r.lock.Acquire()
		if r.connected {
			s.count.Acquire()
			r.connected = false
			s.ropesLeft--
			kassert.Assertf(s.ropesLeft >= 0, "ropes left went negative: %d", s.ropesLeft)
			if s.cfg.Hooks.Severed != nil {
				s.cfg.Hooks.Severed(role, r.hook)
			}
			s.count.Release()

			// The count lock is never held across the print lock.
			s.log.printf("%s", describe(r))
		}
		r.lock.Release()

		s.yield()
	}

	s.log.printf("%s thread done", role)
}

// flowerkiller swaps the stakes of two connected ropes.
func (s *scenario) flowerkiller() {
	s.log.printf("%s thread starting", RoleFlowerKiller)

	for s.remaining() > 1 {
		i, j := s.pick(), s.pick()
		if i == j {
			continue
		}

		// Lower index first, whichever rope was picked first.
		if i > j {
			i, j = j, i
		}
		if s.cfg.Hooks.SwapLock != nil {
			s.cfg.Hooks.SwapLock(i, j)
		}
		lo, hi := s.ropes[i], s.ropes[j]
		lo.lock.Acquire()
		hi.lock.Acquire()

		if lo.connected && hi.connected {
			lo.stake, hi.stake = hi.stake, lo.stake
			s.log.lines(
				fmt.Sprintf("%s switched rope %d from stake %d to stake %d",
					RoleFlowerKiller, lo.hook, hi.stake, lo.stake),
				fmt.Sprintf("%s switched rope %d from stake %d to stake %d",
					RoleFlowerKiller, hi.hook, lo.stake, hi.stake),
			)
		}

		lo.lock.Release()
		hi.lock.Release()

		s.yield()
	}

	s.log.printf("%s thread done", RoleFlowerKiller)
}

// balloon polls the count until every rope is severed. It never sleeps on
// anything but the count lock.
func (s *scenario) balloon() {
	s.log.printf("%s thread starting", RoleBalloon)

	last := s.cfg.Ropes
	for {
		n := s.remaining()
		kassert.Assertf(n <= last, "ropes left grew from %d to %d", last, n)
		if n == 0 {
			break
		}
		last = n
		s.yield()
	}

	s.log.lines(
		"Balloon freed and Prince Dandelion escapes!",
		"Balloon thread done",
	)
}
