package main

import (
	"context"
	"fmt"
	"os"

	"github.com/a3tai/policy-tracker/internal/cli"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

func buildInfo() cli.BuildInfo {
	return cli.BuildInfo{
		Version:   version,
		BuildTime: buildTime,
		GitCommit: gitCommit,
	}
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command line and returns the process exit code
func run(args []string) int {
	cmd := cli.NewRootCommand(buildInfo())
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}
