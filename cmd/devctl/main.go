// Command devctl runs the project's development task table: help, setup,
// format and run, with an optional devtasks.toml override.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/scavlabs/scavenger/internal/task"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("devctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	tablePath := fs.String("table", "", "path to a TOML command table replacing the built-in one")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	table := task.DefaultTable()
	if *tablePath != "" {
		loaded, err := task.LoadTable(*tablePath)
		if err != nil {
			fmt.Fprintf(stderr, "devctl: %v\n", err)
			return 2
		}
		table = loaded
	}

	name := ""
	if fs.NArg() > 0 {
		name = fs.Arg(0)
	}
	r := &task.Runner{Table: table, Stdout: stdout, Stderr: stderr}
	return r.Run(context.Background(), name)
}
