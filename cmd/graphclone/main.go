// Command graphclone clones, checks and fingerprints value graphs written
// as YAML documents.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/graphclone/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}

	// ExitErrors have already been reported through the output formatter.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}
