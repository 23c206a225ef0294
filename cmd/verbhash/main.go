// verbhash finds a minimal perfect hash for a set of command verbs.
// Single binary, zero config: run it with no arguments to solve the FTP verbs.
package main

import (
	"os"

	"github.com/corey/verbhash/cmd/verbhash/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
