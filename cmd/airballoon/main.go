// Package main implements the airballoon CLI tool.
//
// The airballoon tool runs the air balloon concurrency exercise: cutters
// sever ropes, swappers shuffle stakes, and the balloon escapes once every
// rope is cut. All coordination uses the kernsync Lock primitive.
//
// Usage:
//
//	airballoon run                      # 16 ropes, 8 swappers
//	airballoon run -ropes 32 -swappers 4
//	airballoon run -join cond           # driver sleeps instead of polling
//	airballoon version
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "run":
		os.Exit(runCommand(os.Args[2:], os.Stdout, os.Stderr))
	case "version", "--version", "-v":
		os.Exit(versionCommand(os.Args[2:], os.Stdout, os.Stderr))
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`airballoon - kernel synchronization exercise

USAGE:
    airballoon <command> [arguments]

COMMANDS:
    run        Run the air balloon scenario
    version    Show version information
    help       Show this help message

RUN FLAGS:
    -ropes N        Number of ropes (default 16)
    -swappers N     Number of Lord FlowerKiller threads (default 8)
    -join MODE      How main waits for the actors: poll or cond (default poll)
    -seed N         Seed the rope picker (0 = random)
    -max-threads N  Fail spawning after N threads (0 = unlimited)
    -quiet          Suppress the scenario log

EXAMPLES:
    # Classic run
    airballoon run

    # Large table, sleeping join
    airballoon run -ropes 64 -swappers 16 -join cond

    # Exercise the spawn failure path
    airballoon run -max-threads 3

`)
}
