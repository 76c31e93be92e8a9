package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// Local executes commands on the host with os/exec.
type Local struct {
	// Stdout and Stderr, when set, receive a live copy of the process output
	// in addition to the captured buffers.
	Stdout io.Writer
	Stderr io.Writer
}

// WaitDelay bounds how long Run waits for output pipes after the process
// exits or is killed on cancellation.
var WaitDelay = 3 * time.Second

// NewLocal creates a Local runner. When stream is true the child output is
// mirrored to the console while it is captured.
func NewLocal(stream bool) *Local {
	l := &Local{}
	if stream {
		l.Stdout = os.Stdout
		l.Stderr = os.Stderr
	}
	return l
}

// Run executes cmd and waits for it to finish.
func (l *Local) Run(ctx context.Context, cmd Command) (Result, error) {
	if cmd.Program == "" {
		return Result{}, fmt.Errorf("command cannot be empty")
	}

	if cmd.Dir != "" {
		if _, err := os.Stat(cmd.Dir); err != nil {
			return Result{}, fmt.Errorf("working directory does not exist: %s", cmd.Dir)
		}
	}

	execCmd := exec.CommandContext(ctx, cmd.Program, cmd.Args...)
	execCmd.Dir = cmd.Dir
	// Children of a killed tool (rustc under cargo) may keep the output
	// pipes open; stop waiting on them after WaitDelay.
	execCmd.WaitDelay = WaitDelay
	if len(cmd.Env) > 0 {
		execCmd.Env = append(os.Environ(), cmd.Env...)
	}

	var stdout, stderr bytes.Buffer
	execCmd.Stdout = teeWriter(&stdout, l.Stdout)
	execCmd.Stderr = teeWriter(&stderr, l.Stderr)

	start := time.Now()
	err := execCmd.Run()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = -1
		return res, ctxErr
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		res.ExitCode = -1
		return res, err
	}

	return res, nil
}

func teeWriter(buf *bytes.Buffer, mirror io.Writer) io.Writer {
	if mirror == nil {
		return buf
	}
	return io.MultiWriter(buf, mirror)
}
