package watcher

import (
	"context"
	"errors"
	"time"
)

// ErrEmptyFile is returned for a new file that is still zero bytes after
// maxEmptyChecks settle intervals.
var ErrEmptyFile = errors.New("file stayed empty")

// Watcher defines the interface for file system monitoring
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler is a function that handles file events
type EventHandler func(ctx context.Context, filePath string) error

// Options configure a directory Watcher.
type Options struct {
	InputDir      string
	MaxConcurrent int
	// SettleDelay is how long a new file's size must stay unchanged before
	// it is handed over, so recordings still being copied are not read
	// half-written.
	SettleDelay time.Duration
}
