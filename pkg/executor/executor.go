package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// maxStderr caps how much of a failed command's stderr ends up in the error.
const maxStderr = 4096

type implExecutor struct {
	env []string
}

// New creates a new Executor instance. extraEnv entries (KEY=VALUE) are
// appended to the inherited environment of every command.
func New(extraEnv ...string) Executor {
	return &implExecutor{env: extraEnv}
}

// Execute runs an external command with the given arguments
func (e *implExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return e.run(ctx, "", name, args...)
}

// ExecuteInDir runs an external command in a specific working directory
func (e *implExecutor) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error) {
	return e.run(ctx, dir, name, args...)
}

func (e *implExecutor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (e *implExecutor) run(ctx context.Context, dir string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if len(e.env) > 0 {
		cmd.Env = append(cmd.Environ(), e.env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("command '%s' aborted: %w", name, ctx.Err())
		}
		// Include stderr in error message for debugging
		if tail := stderrTail(stderr.String()); tail != "" {
			return "", fmt.Errorf("command '%s' failed: %w\nstderr: %s", name, err, tail)
		}
		return "", fmt.Errorf("command '%s' failed: %w", name, err)
	}

	return stdout.String(), nil
}

// stderrTail keeps the end of stderr, where ffmpeg and whisper print the
// actual failure after their banners.
func stderrTail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderr {
		s = "..." + s[len(s)-maxStderr:]
	}
	return s
}
