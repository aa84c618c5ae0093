package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/logger"
)

// supportedFormats are the recording containers ffmpeg is asked to read.
var supportedFormats = []string{".mp4", ".mov", ".avi", ".mkv", ".webm", ".m4v", ".flv", ".m4a"}

type implWatcher struct {
	inputDir      string
	handler       EventHandler
	logger        logger.Logger
	watcher       *fsnotify.Watcher
	maxConcurrent int
	settleDelay   time.Duration
	semaphore     chan struct{}
	wg            sync.WaitGroup

	mu      sync.Mutex
	pending map[string]bool
}

// Start begins monitoring the input directory for new recordings
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started (max concurrent: %d). Monitoring: %s", w.maxConcurrent, w.inputDir)
	w.logger.Info(ctx, "Supported formats: %s", strings.Join(supportedFormats, ", "))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for ongoing processing to complete...")
			w.wg.Wait()
			w.logger.Info(ctx, "File watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			// Create also fires for files moved into the directory
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !isVideoFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-video file: %s", event.Name)
				continue
			}
			if !w.claim(event.Name) {
				continue
			}

			w.logger.Info(ctx, "New video detected: %s", event.Name)
			w.wg.Add(1)
			go w.handle(ctx, event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

func (w *implWatcher) handle(ctx context.Context, filePath string) {
	defer w.wg.Done()
	defer w.unclaim(filePath)

	if err := waitStable(ctx, filePath, w.settleDelay); err != nil {
		w.logger.Warn(ctx, "Skipping %s: %v", filePath, err)
		return
	}

	// Acquire semaphore slot (blocks if max concurrent reached)
	select {
	case w.semaphore <- struct{}{}:
	case <-ctx.Done():
		return
	}
	defer func() { <-w.semaphore }()

	if err := w.handler(ctx, filePath); err != nil {
		w.logger.Error(ctx, "Failed to process %s: %v", filePath, err)
	}
}

// claim marks filePath as in flight. Editors and copy tools can fire
// several Create events for one file.
func (w *implWatcher) claim(filePath string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending[filePath] {
		return false
	}
	w.pending[filePath] = true
	return true
}

func (w *implWatcher) unclaim(filePath string) {
	w.mu.Lock()
	delete(w.pending, filePath)
	w.mu.Unlock()
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

// maxEmptyChecks bounds how long a zero-byte file is waited on.
const maxEmptyChecks = 30

// waitStable returns once the size of path has not changed for delay.
func waitStable(ctx context.Context, path string, delay time.Duration) error {
	last := int64(-1)
	empty := 0
	for {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		size := info.Size()
		if size == 0 {
			empty++
			if empty >= maxEmptyChecks {
				return ErrEmptyFile
			}
		} else if size == last {
			return nil
		}
		last = size

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// isVideoFile checks if the file has a supported video extension
func isVideoFile(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	return slices.Contains(supportedFormats, strings.ToLower(filepath.Ext(path)))
}
