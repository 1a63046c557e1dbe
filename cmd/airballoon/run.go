// run.go implements the 'airballoon run' command.
package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/kolkov/kernsync/internal/airballoon"
	"github.com/kolkov/kernsync/internal/thread"
)

// runConfig holds the parsed 'run' flags.
type runConfig struct {
	ropes      int
	swappers   int
	join       string
	seed       uint64
	maxThreads int
	quiet      bool
}

// parseRunArgs parses the 'run' flags.
//
// Returns:
//   - airballoon.Config ready for Run (Out not set)
//   - bool: true if -quiet was given
//   - error if a flag is malformed or out of range
func parseRunArgs(args []string, stderr io.Writer) (airballoon.Config, bool, error) {
	var rc runConfig
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&rc.ropes, "ropes", airballoon.DefaultRopes, "number of ropes")
	fs.IntVar(&rc.swappers, "swappers", airballoon.DefaultSwappers, "number of Lord FlowerKiller threads")
	fs.StringVar(&rc.join, "join", airballoon.JoinPoll.String(), "join strategy: poll or cond")
	fs.Uint64Var(&rc.seed, "seed", 0, "seed for the rope picker (0 = random)")
	fs.IntVar(&rc.maxThreads, "max-threads", 0, "fail spawning after this many threads (0 = unlimited)")
	fs.BoolVar(&rc.quiet, "quiet", false, "suppress the scenario log")

	if err := fs.Parse(args); err != nil {
		return airballoon.Config{}, false, err
	}
	if fs.NArg() > 0 {
		return airballoon.Config{}, false, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	join, err := airballoon.ParseJoin(rc.join)
	if err != nil {
		return airballoon.Config{}, false, err
	}

	cfg := airballoon.DefaultConfig()
	cfg.Ropes = rc.ropes
	cfg.Swappers = rc.swappers
	cfg.Join = join
	cfg.Spawner = &thread.GoSpawner{MaxThreads: rc.maxThreads}
	if rc.seed != 0 {
		cfg.Rand = airballoon.SeededRand(rc.seed)
	}
	return cfg, rc.quiet, nil
}

// runCommand implements the 'airballoon run' command and returns the exit
// code.
//
// Flow:
//  1. Parse flags into an airballoon.Config
//  2. Run the scenario, logging to stdout unless -quiet
//  3. Print a summary to stderr
//
// Example:
//
//	airballoon run -ropes 8 -swappers 2
func runCommand(args []string, stdout, stderr io.Writer) int {
	cfg, quiet, err := parseRunArgs(args, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if !quiet {
		cfg.Out = stdout
	}

	report, err := airballoon.Run(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintf(stderr, "ropes left: %d\n", report.Remaining)
	for _, role := range airballoon.Roles() {
		fmt.Fprintf(stderr, "%s exits: %d\n", role, report.Exits[role])
	}
	return 0
}
