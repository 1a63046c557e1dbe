package kern_test

import (
	"fmt"
	"sync"

	"github.com/kolkov/kernsync/kern"
)

// Example protects a shared counter with a Lock.
func Example() {
	lk, err := kern.NewLock("counter")
	if err != nil {
		panic(err)
	}
	defer lk.Destroy()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				lk.Acquire()
				counter++
				lk.Release()
			}
		}()
	}
	wg.Wait()

	fmt.Println(counter)

	// Output:
	// 1000
}

// Example_monitor waits for a flag with a condition variable.
func Example_monitor() {
	lk, _ := kern.NewLock("ready lock")
	cv, _ := kern.NewCV("ready cv")
	defer lk.Destroy()
	defer cv.Destroy()

	ready := false
	go func() {
		lk.Acquire()
		ready = true
		cv.Signal(lk)
		lk.Release()
	}()

	lk.Acquire()
	for !ready {
		cv.Wait(lk)
	}
	lk.Release()

	fmt.Println("ready")

	// Output:
	// ready
}

// ExampleNewSemaphore limits concurrent workers to two.
func ExampleNewSemaphore() {
	sem, _ := kern.NewSemaphore("slots", 2)
	defer sem.Destroy()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem.Down()
			defer sem.Up()
		}()
	}
	wg.Wait()

	fmt.Println(sem.Count())

	// Output:
	// 2
}

// ExampleRunAirballoon runs the exercise and checks the outcome.
func ExampleRunAirballoon() {
	cfg := kern.DefaultAirballoonConfig()
	cfg.Join = kern.JoinCond

	report, err := kern.RunAirballoon(cfg)
	if err != nil {
		panic(err)
	}
	fmt.Println("ropes left:", report.Remaining)

	// Output:
	// ropes left: 0
}
