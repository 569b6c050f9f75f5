// Command carbonwise compares the energy, emissions and latency of AI
// inference configurations and recommends greener cloud regions.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rshade/carbonwise/internal/cli"
	"github.com/rshade/carbonwise/pkg/version"
)

func main() {
	os.Exit(run())
}

// run executes the root command and returns the process exit code.
func run() int {
	root := cli.NewRootCmd(version.String())
	err := root.Execute()
	if err == nil {
		return 0
	}

	var gateErr *cli.GateExitError
	if !errors.As(err, &gateErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	} else {
		fmt.Fprintln(os.Stderr, gateErr.Reason)
	}
	return extractGateExitCode(err)
}

// extractGateExitCode maps err to a process exit code: 0 for nil, the carried
// code for a GateExitError anywhere in the chain, 1 otherwise.
func extractGateExitCode(err error) int {
	if err == nil {
		return 0
	}
	var gateErr *cli.GateExitError
	if errors.As(err, &gateErr) {
		return gateErr.ExitCode
	}
	return 1
}
