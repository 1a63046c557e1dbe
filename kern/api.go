package kern

import (
	"github.com/kolkov/kernsync/internal/airballoon"
	"github.com/kolkov/kernsync/internal/synch"
)

// Semaphore is a counting semaphore. See [NewSemaphore].
type Semaphore = synch.Semaphore

// Lock is a sleeping mutual-exclusion lock. See [NewLock].
type Lock = synch.Lock

// ConditionVariable is a Mesa-style condition variable. See [NewCV].
type ConditionVariable = synch.ConditionVariable

// NewSemaphore creates a semaphore holding initial permits.
//
// Down takes a permit, sleeping while none is available; Up returns one.
// The name must not be empty.
func NewSemaphore(name string, initial uint) (*Semaphore, error) {
	return synch.NewSemaphore(name, initial)
}

// NewLock creates an unheld lock.
//
// Acquire sleeps until the lock is free. Only the holder may Release, and a
// holder must not Acquire again.
func NewLock(name string) (*Lock, error) {
	return synch.NewLock(name)
}

// NewCV creates a condition variable.
//
// Wait, Signal and Broadcast must be called with the lock that guards the
// condition held.
func NewCV(name string) (*ConditionVariable, error) {
	return synch.NewCV(name)
}

// AirballoonConfig configures [RunAirballoon].
type AirballoonConfig = airballoon.Config

// AirballoonReport summarizes a finished run.
type AirballoonReport = airballoon.Report

// Join strategies for AirballoonConfig.Join.
const (
	JoinPoll = airballoon.JoinPoll
	JoinCond = airballoon.JoinCond
)

// DefaultAirballoonConfig returns the classic setup: 16 ropes and 8
// swappers, joined by busy polling.
func DefaultAirballoonConfig() AirballoonConfig {
	return airballoon.DefaultConfig()
}

// RunAirballoon runs the air balloon exercise to completion.
//
// It blocks until every actor has exited and every lock is destroyed. An
// error is returned for invalid configurations and for actor spawn
// failures.
func RunAirballoon(cfg AirballoonConfig) (*AirballoonReport, error) {
	return airballoon.Run(cfg)
}
