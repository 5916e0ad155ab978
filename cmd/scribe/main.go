// Command scribe compiles CUE documents and renders selected elements.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/scribe/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	err := cmd.Execute()
	if err == nil {
		return
	}

	// Commands report their own errors; anything else is a usage error
	// from cobra (unknown flag, wrong argument count).
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCommandError)
	}
	os.Exit(exitErr.Code)
}
