package runner

import (
	"context"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("relies on POSIX shell utilities")
	}
}

func TestLocal_Run_Success(t *testing.T) {
	skipOnWindows(t)
	r := NewLocal(false)

	res, err := r.Run(context.Background(), Command{Program: "echo", Args: []string{"hello world"}})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello world", strings.TrimSpace(res.Stdout))
	assert.True(t, res.Success())
}

func TestLocal_Run_NonZeroExitIsNotAnError(t *testing.T) {
	skipOnWindows(t)
	r := NewLocal(false)

	res, err := r.Run(context.Background(), Command{Program: "sh", Args: []string{"-c", "echo boom >&2; exit 3"}})
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "boom", res.Output())
}

func TestLocal_Run_WorkingDirectory(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	r := NewLocal(false)

	res, err := r.Run(context.Background(), Command{Program: "pwd", Dir: dir})
	require.NoError(t, err)
	assert.Contains(t, strings.TrimSpace(res.Stdout), dir[strings.LastIndex(dir, "/")+1:])
}

func TestLocal_Run_MissingWorkingDirectory(t *testing.T) {
	r := NewLocal(false)
	_, err := r.Run(context.Background(), Command{Program: "echo", Dir: "/definitely/not/here"})
	require.Error(t, err)
}

func TestLocal_Run_EmptyCommand(t *testing.T) {
	r := NewLocal(false)
	_, err := r.Run(context.Background(), Command{})
	require.Error(t, err)
}

func TestLocal_Run_ProgramNotFound(t *testing.T) {
	r := NewLocal(false)
	res, err := r.Run(context.Background(), Command{Program: "relforge-no-such-tool"})
	require.Error(t, err)
	assert.Equal(t, -1, res.ExitCode)
}

func TestCheck_WrapsNonZeroExit(t *testing.T) {
	skipOnWindows(t)
	_, err := Check(context.Background(), NewLocal(false), Command{Program: "sh", Args: []string{"-c", "echo lint failed >&2; exit 101"}})
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, 101, toolErr.Result.ExitCode)
	assert.Contains(t, toolErr.Error(), "lint failed")
}

func TestLocal_Run_CancelDoesNotWaitForOrphanedChildren(t *testing.T) {
	skipOnWindows(t)
	prev := WaitDelay
	WaitDelay = 200 * time.Millisecond
	t.Cleanup(func() { WaitDelay = prev })

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	// The background sleep inherits stdout and outlives the killed shell.
	start := time.Now()
	res, err := NewLocal(false).Run(ctx, Command{Program: "sh", Args: []string{"-c", "sleep 30 & wait"}})

	require.Error(t, err)
	assert.Equal(t, -1, res.ExitCode)
	assert.Less(t, time.Since(start), 10*time.Second)
}
