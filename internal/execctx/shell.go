package execctx

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// spawnExitCode is reported when the command could not be started at
// all (not found, permission denied). Matches the shell convention.
const spawnExitCode = 127

// CommandResult is the outcome of one subprocess run. Failure is always
// expressed through the exit code, never through a Go error: actions
// inspect code like a shell script would.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Ok reports whether the command exited zero.
func (r CommandResult) Ok() bool { return r.ExitCode == 0 }

// ShellRunner executes subprocesses for actions, fire-and-wait with no
// timeout layer of its own; callers bound it with the context.
type ShellRunner struct {
	dir string
	env []string
}

// NewShellRunner creates a runner executing in dir (empty means the
// process working directory). A nil env inherits the host environment.
func NewShellRunner(dir string, env []string) *ShellRunner {
	return &ShellRunner{dir: dir, env: env}
}

// Run executes one command and waits for it. A command that cannot be
// spawned reports exit code 127 with the reason on stderr.
func (r *ShellRunner) Run(ctx context.Context, name string, args ...string) CommandResult {
	if ctx == nil {
		ctx = context.Background()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.dir
	cmd.Env = r.env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err == nil {
		return result
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result
	}

	result.ExitCode = spawnExitCode
	if result.Stderr == "" {
		result.Stderr = err.Error()
	}
	return result
}
