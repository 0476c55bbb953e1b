// Command worker consumes SMILES parse requests from Kafka.  It is the
// "smiles worker" subcommand packaged as its own binary for deployment.
package main

import (
	"os"

	"github.com/turtacn/smiles-parser/internal/interfaces/cli"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate

	args := append([]string{"worker"}, os.Args[1:]...)
	if err := cli.ExecuteArgs(args); err != nil {
		os.Exit(1)
	}
}

//Personal.AI order the ending
