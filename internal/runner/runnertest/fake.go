// Package runnertest provides a scripted Runner for tests.
package runnertest

import (
	"context"
	"strings"
	"sync"

	"github.com/dosanma1/relforge/internal/runner"
)

// Handler produces the result for a matched command. It may touch the
// filesystem to simulate tool side effects.
type Handler func(cmd runner.Command) (runner.Result, error)

type rule struct {
	program string
	prefix  []string
	handle  Handler
}

// Fake records every command and answers from scripted rules. Commands with
// no matching rule succeed with empty output.
type Fake struct {
	mu    sync.Mutex
	rules []rule
	calls []runner.Command
}

// New creates an empty Fake.
func New() *Fake {
	return &Fake{}
}

// On registers a handler for program invoked with args starting with prefix.
// Later registrations take precedence.
func (f *Fake) On(program string, prefix []string, h Handler) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, rule{program: program, prefix: prefix, handle: h})
	return f
}

// Exit registers a fixed exit status and stderr for a command prefix.
func (f *Fake) Exit(program string, prefix []string, code int, stderr string) *Fake {
	return f.On(program, prefix, func(runner.Command) (runner.Result, error) {
		return runner.Result{ExitCode: code, Stderr: stderr}, nil
	})
}

// Run implements runner.Runner.
func (f *Fake) Run(ctx context.Context, cmd runner.Command) (runner.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	var h Handler
	for i := len(f.rules) - 1; i >= 0; i-- {
		r := f.rules[i]
		if r.program == cmd.Program && hasPrefix(cmd.Args, r.prefix) {
			h = r.handle
			break
		}
	}
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return runner.Result{ExitCode: -1}, err
	}
	if h == nil {
		return runner.Result{}, nil
	}
	return h(cmd)
}

// Calls returns the recorded commands in invocation order.
func (f *Fake) Calls() []runner.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]runner.Command, len(f.calls))
	copy(out, f.calls)
	return out
}

// CommandLines returns the recorded commands rendered as strings.
func (f *Fake) CommandLines() []string {
	calls := f.Calls()
	lines := make([]string, 0, len(calls))
	for _, c := range calls {
		lines = append(lines, strings.Join(append([]string{c.Program}, c.Args...), " "))
	}
	return lines
}

func hasPrefix(args, prefix []string) bool {
	if len(prefix) > len(args) {
		return false
	}
	for i, p := range prefix {
		if args[i] != p {
			return false
		}
	}
	return true
}
