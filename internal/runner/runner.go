// Package runner executes external tools for the release pipeline.
// Every toolchain interaction goes through the Runner interface so tests can
// substitute scripted toolchains for real compilers and archivers.
package runner

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Command describes a single process invocation.
type Command struct {
	// Program is an executable path or a name resolved through PATH.
	Program string

	// Args are passed verbatim, without shell interpretation.
	Args []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Env entries (KEY=VALUE) are appended to the inherited environment.
	Env []string
}

// String renders the command line for diagnostics.
func (c Command) String() string {
	parts := append([]string{c.Program}, c.Args...)
	return strings.Join(parts, " ")
}

// Result holds the outcome of a finished process.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Success reports whether the process exited with status 0.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Output returns stderr when present, otherwise stdout.
func (r Result) Output() string {
	if s := strings.TrimSpace(r.Stderr); s != "" {
		return s
	}
	return strings.TrimSpace(r.Stdout)
}

// Runner runs commands to completion.
//
// A non-zero exit status is not an error: it is reported through
// Result.ExitCode. The error return is reserved for processes that could not
// be started or were killed by context cancellation.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ToolError is returned by Check when a process exits non-zero.
type ToolError struct {
	Command Command
	Result  Result
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Command, e.Result.ExitCode)
	if out := e.Result.Output(); out != "" {
		msg += ":\n" + out
	}
	return msg
}

// Check runs cmd and converts a non-zero exit into a *ToolError.
func Check(ctx context.Context, r Runner, cmd Command) (Result, error) {
	res, err := r.Run(ctx, cmd)
	if err != nil {
		return res, fmt.Errorf("failed to run %s: %w", cmd.Program, err)
	}
	if !res.Success() {
		return res, &ToolError{Command: cmd, Result: res}
	}
	return res, nil
}
