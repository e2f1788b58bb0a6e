// dispatch/runner.go
package dispatch

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Runner executes one build command in a working directory and blocks until
// it exits.
type Runner interface {
	Run(ctx context.Context, dir, command string) error
}

// ShellRunner runs commands through a POSIX shell, streaming their output.
type ShellRunner struct {
	// Shell defaults to "sh".
	Shell  string
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes command with `<shell> -c` inside dir.
func (r ShellRunner) Run(ctx context.Context, dir, command string) error {
	shell := r.Shell
	if shell == "" {
		shell = "sh"
	}
	cmd := exec.CommandContext(ctx, shell, "-c", command)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%q in %s: %w", command, dir, err)
	}
	return nil
}

// RunnerFunc adapts a plain function to the Runner interface.
type RunnerFunc func(ctx context.Context, dir, command string) error

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, dir, command string) error {
	return f(ctx, dir, command)
}
