// main is the entry point for the vendiff CLI.
package main

import (
	"fmt"
	"os"

	"github.com/vendiff/vendiff/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		// Cobra error reporting is silenced, so this is the one place
		// validation and flag failures reach the user.
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

