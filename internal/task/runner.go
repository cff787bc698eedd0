package task

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// Exit codes for runner-level failures. Step failures propagate the step's
// own status instead.
const (
	exitOK      = 0
	exitUnknown = 2
	exitStart   = 127
)

// Runner executes commands from a table. Steps inherit the runner's working
// directory and write directly to its streams.
type Runner struct {
	Table  *Table
	Dir    string
	Stdout io.Writer
	Stderr io.Writer

	// execStep allows tests to intercept executions. nil uses os/exec.
	execStep func(ctx context.Context, argv []string) int
}

// Run resolves name (empty means the table default) and executes the
// command's steps in order. The first non-zero step aborts the remainder and
// its status becomes the runner's status. Unknown names execute nothing.
func (r *Runner) Run(ctx context.Context, name string) int {
	if name == "" {
		name = r.Table.Default()
	}
	cmd, ok := r.Table.Lookup(name)
	if !ok {
		fmt.Fprintf(r.Stderr, "devctl: unknown command %q\n", name)
		return exitUnknown
	}
	for _, step := range cmd.Steps {
		if step.Print != "" {
			fmt.Fprintln(r.Stdout, step.Print)
			continue
		}
		if code := r.runStep(ctx, step.Argv); code != exitOK {
			return code
		}
	}
	return exitOK
}

func (r *Runner) runStep(ctx context.Context, argv []string) int {
	if r.execStep != nil {
		return r.execStep(ctx, argv)
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.Dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	err := cmd.Run()
	if err == nil {
		return exitOK
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	// Program missing or failed to start.
	fmt.Fprintf(r.Stderr, "devctl: %s: %v\n", argv[0], err)
	return exitStart
}
