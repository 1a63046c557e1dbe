package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/kolkov/kernsync/kern"
)

// versionCommand prints version information. With -require it instead
// checks that this build satisfies a minimum version and exits non-zero if
// it does not.
func versionCommand(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	fs.SetOutput(stderr)
	require := fs.String("require", "", "minimum version, e.g. v0.1.0")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	info := kern.GetInfo()
	if *require == "" {
		fmt.Fprintf(stdout, "airballoon version %s (%s)\n", info.Version, info.GoVersion)
		return 0
	}

	ok, err := kern.Satisfies(*require)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if !ok {
		fmt.Fprintf(stderr, "airballoon %s does not satisfy %s\n", info.Version, *require)
		return 1
	}
	fmt.Fprintf(stdout, "airballoon %s satisfies %s\n", info.Version, *require)
	return 0
}
