// Package airballoon runs the air balloon concurrency exercise on top of
// the synch primitives.
//
// A balloon is held down by ropes. Each rope runs from a hook on the balloon
// to a stake in the ground. Several actors run concurrently:
//
//   - Dandelion and Marigold sever random ropes until none is left.
//   - Lord FlowerKiller (several instances) swaps the stakes of two random
//     connected ropes while more than one rope remains.
//   - Balloon polls the number of remaining ropes and escapes when it hits
//     zero.
//   - The driver ([Run]) spawns everyone, waits until every actor has
//     reported its exit, and tears the scenario down.
//
// # Locking protocol
//
// Each rope has its own lock protecting its stake and connected flag. The
// ropes-left count has a separate count lock, and log output goes through a
// print lock. All locks are ranked and must be taken in increasing rank:
//
//	rope i      rank i          (0 <= i < N)
//	count lock  rank N
//	print lock  rank N+1
//
// A cutter holds one rope lock and takes the count lock inside it, drops the
// count lock, and only then takes the print lock, still under the rope lock.
// The count lock is never held across another blocking acquisition.
// A swapper holds two rope locks, always the lower index first, then the
// print lock. The ordering is the only deadlock avoidance and is enforced at
// run time by a lockorder.Checker. No lock is held across a yield.
//
// # Exit conditions
//
// Cutters exit when they observe zero ropes left at the top of their loop;
// swappers exit when they observe at most one (a single rope cannot be
// swapped with anything). Balloon exits when it observes zero. The count
// only decreases, so every actor eventually sees its exit condition once
// the cutters have severed everything.
//
// There is no join primitive. Each actor increments a per-role exit counter
// exactly once when it finishes, and the driver waits for the counters to
// reach the number of actors spawned for each role, either by busy polling
// ([JoinPoll], the default) or by sleeping on a condition variable
// ([JoinCond]).
package airballoon
