package executor

import (
	"context"
	"runtime"
	"strings"
	"testing"
)

func TestExecute(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	ctx := context.Background()
	exec := New("MT_EXECUTOR_TEST=hello")

	out, err := exec.Execute(ctx, "sh", "-c", "printf %s \"$MT_EXECUTOR_TEST\"")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "hello" {
		t.Errorf("Execute() = %q, want %q", out, "hello")
	}
}

func TestExecuteIncludesStderr(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	_, err := New().Execute(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
	if err == nil {
		t.Fatal("Execute() should fail on non-zero exit")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %q should contain stderr", err)
	}
}

func TestExecuteInDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses pwd")
	}
	dir := t.TempDir()
	out, err := New().ExecuteInDir(context.Background(), dir, "pwd")
	if err != nil {
		t.Fatalf("ExecuteInDir() error = %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), dir[strings.LastIndex(dir, "/")+1:]) {
		t.Errorf("ExecuteInDir() ran in %q, want %q", out, dir)
	}
}

func TestStderrTail(t *testing.T) {
	long := strings.Repeat("x", maxStderr+10)
	got := stderrTail(long)
	if len(got) != maxStderr+3 {
		t.Errorf("stderrTail length = %d, want %d", len(got), maxStderr+3)
	}
	if stderrTail("  \n") != "" {
		t.Error("stderrTail of blank input should be empty")
	}
}
