package airballoon

import (
	"fmt"
)

// RopeState is a rope as seen at the end of a run.
type RopeState struct {
	Hook      int
	Stake     int
	Connected bool
}

// Report summarizes a finished run.
type Report struct {
	// Remaining is the ropes-left count after every actor exited.
	Remaining int

	// Exits counts exit reports per role.
	Exits map[Role]int

	// Ropes is the final rope table, indexed by hook.
	Ropes []RopeState
}

// Run plays the scenario to completion and tears it down.
//
// Run blocks the caller until every spawned actor has exited. If an actor
// cannot be spawned, the actors already spawned are released straight to
// their exit, joined, and the error is returned together with a report of
// the aborted run.
//
// Example:
//
//	cfg := airballoon.DefaultConfig()
//	cfg.Out = os.Stdout
//	report, err := airballoon.Run(cfg)
func Run(cfg Config) (*Report, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s, err := newScenario(cfg)
	if err != nil {
		return nil, fmt.Errorf("airballoon setup: %w", err)
	}

	spawnErr := s.spawnAll()
	if spawnErr != nil {
		s.aborted.Store(true)
	}
	s.start()
	s.join.wait()

	report := &Report{
		Remaining: s.remaining(),
		Exits:     s.join.exits(),
		Ropes:     s.snapshot(),
	}
	if spawnErr == nil {
		s.log.printf("Main thread done")
	}
	s.destroy()

	if spawnErr != nil {
		return report, fmt.Errorf("airballoon: %w", spawnErr)
	}
	return report, nil
}
