package airballoon

import (
	"fmt"

	"go.uber.org/atomic"

	"github.com/kolkov/kernsync/internal/synch"
	"github.com/kolkov/kernsync/internal/thread"
)

// Role identifies an actor kind.
type Role int

// Actor roles.
const (
	RoleDandelion Role = iota
	RoleMarigold
	RoleFlowerKiller
	RoleBalloon

	numRoles
)

// String returns the actor's name.
func (r Role) String() string {
	switch r {
	case RoleDandelion:
		return "Dandelion"
	case RoleMarigold:
		return "Marigold"
	case RoleFlowerKiller:
		return "Lord FlowerKiller"
	case RoleBalloon:
		return "Balloon"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Roles lists every actor role.
func Roles() []Role {
	return []Role{RoleDandelion, RoleMarigold, RoleFlowerKiller, RoleBalloon}
}

// joiner collects actor exits for the driver.
//
// expect is called by the driver once per successfully spawned actor,
// before the start gate opens. done is called by each actor exactly once,
// as the last thing it does. wait returns once every expected actor has
// called done.
type joiner interface {
	expect(role Role)
	done(role Role)
	wait()
	exits() map[Role]int
	destroy()
}

func newJoiner(strategy JoinStrategy) (joiner, error) {
	if strategy != JoinCond {
		return &pollJoin{}, nil
	}
	j, err := newCondJoin()
	if err != nil {
		return nil, err
	}
	return j, nil
}

// pollJoin is the busy-polling join.
//
// Correct only because each counter is monotone and every actor increments
// its role's counter exactly once.
type pollJoin struct {
	want  [numRoles]int32 // driver only
	count [numRoles]atomic.Int32
}

func (j *pollJoin) expect(role Role) {
	j.want[role]++
}

func (j *pollJoin) done(role Role) {
	j.count[role].Inc()
}

func (j *pollJoin) wait() {
	for !j.complete() {
		thread.Yield()
	}
}

func (j *pollJoin) complete() bool {
	for r := range j.count {
		if j.count[r].Load() < j.want[r] {
			return false
		}
	}
	return true
}

func (j *pollJoin) exits() map[Role]int {
	m := make(map[Role]int, numRoles)
	for _, r := range Roles() {
		m[r] = int(j.count[r].Load())
	}
	return m
}

func (j *pollJoin) destroy() {}

// condJoin is the sleeping join: a counter guarded by a lock, with a
// condition variable broadcast on every exit.
type condJoin struct {
	lock *synch.Lock
	cv   *synch.ConditionVariable

	// Guarded by lock.
	want  [numRoles]int
	count [numRoles]int
}

func newCondJoin() (*condJoin, error) {
	lk, err := synch.NewLock("Exit lock")
	if err != nil {
		return nil, err
	}
	cv, err := synch.NewCV("Exit cv")
	if err != nil {
		lk.Destroy()
		return nil, err
	}
	return &condJoin{lock: lk, cv: cv}, nil
}

func (j *condJoin) expect(role Role) {
	j.lock.Acquire()
	j.want[role]++
	j.lock.Release()
}

func (j *condJoin) done(role Role) {
	j.lock.Acquire()
	j.count[role]++
	j.cv.Broadcast(j.lock)
	j.lock.Release()
}

func (j *condJoin) wait() {
	j.lock.Acquire()
	for !j.complete() {
		j.cv.Wait(j.lock)
	}
	j.lock.Release()
}

// complete must be called with lock held.
func (j *condJoin) complete() bool {
	for r := range j.count {
		if j.count[r] < j.want[r] {
			return false
		}
	}
	return true
}

func (j *condJoin) exits() map[Role]int {
	j.lock.Acquire()
	defer j.lock.Release()
	m := make(map[Role]int, numRoles)
	for _, r := range Roles() {
		m[r] = j.count[r]
	}
	return m
}

func (j *condJoin) destroy() {
	j.cv.Destroy()
	j.lock.Destroy()
}
