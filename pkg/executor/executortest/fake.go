// Package executortest provides a scriptable executor.Executor for tests.
package executortest

import (
	"context"
	"fmt"
	"sync"
)

// Call records one command invocation.
type Call struct {
	Dir  string
	Name string
	Args []string
}

// Arg returns the value following flag in the call's arguments, or "".
func (c Call) Arg(flag string) string {
	for i := 0; i+1 < len(c.Args); i++ {
		if c.Args[i] == flag {
			return c.Args[i+1]
		}
	}
	return ""
}

// Last returns the final argument, usually the output path.
func (c Call) Last() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[len(c.Args)-1]
}

// Fake records calls and answers them through Handler.
type Fake struct {
	// Handler produces the stdout/error of a call. Nil means success with
	// empty output.
	Handler func(c Call) (string, error)
	// Paths answers LookPath; missing names fail.
	Paths map[string]string

	mu    sync.Mutex
	calls []Call
}

func (f *Fake) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return f.ExecuteInDir(ctx, "", name, args...)
}

func (f *Fake) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error) {
	c := Call{Dir: dir, Name: name, Args: append([]string(nil), args...)}
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.Handler == nil {
		return "", nil
	}
	return f.Handler(c)
}

func (f *Fake) LookPath(name string) (string, error) {
	if p, ok := f.Paths[name]; ok {
		return p, nil
	}
	return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
}

// Calls returns a copy of the recorded calls.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}
