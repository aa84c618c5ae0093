package watcher

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nguyentantai21042004/meeting-transcriber/internal/logger"
)

func testLogger() logger.Logger {
	return logger.NewWriter("error", os.Stderr)
}

func TestIsVideoFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/in/meeting.mp4", true},
		{"/in/MEETING.MOV", true},
		{"/in/call.mkv", true},
		{"/in/voice.m4a", true},
		{"/in/notes.txt", false},
		{"/in/meeting.mp4.part", false},
		{"/in/.meeting.mp4", false},
		{"/in/noext", false},
	}
	for _, tt := range tests {
		if got := isVideoFile(tt.path); got != tt.want {
			t.Errorf("isVideoFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatcherHandlesNewVideos(t *testing.T) {
	dir := t.TempDir()
	handled := make(chan string, 4)

	w, err := New(Options{InputDir: dir, MaxConcurrent: 1, SettleDelay: 20 * time.Millisecond},
		func(ctx context.Context, filePath string) error {
			handled <- filePath
			return nil
		}, testLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	// Give the event loop a moment to start selecting.
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0644); err != nil {
		t.Fatal(err)
	}
	video := filepath.Join(dir, "standup.mp4")
	if err := os.WriteFile(video, []byte("video bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-handled:
		if got != video {
			t.Errorf("handled %q, want %q", got, video)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("video was not handled")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Start() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}

	select {
	case got := <-handled:
		t.Errorf("unexpected extra handling of %q", got)
	default:
	}
}

func TestNewCreatesInputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "input")
	w, err := New(Options{InputDir: dir}, func(context.Context, string) error { return nil }, testLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Stop()
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("input dir not created: %v", err)
	}
}

func TestWaitStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.mp4")
	if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := waitStable(context.Background(), path, 5*time.Millisecond); err != nil {
		t.Errorf("waitStable() error = %v", err)
	}
	if err := waitStable(context.Background(), path+".missing", 5*time.Millisecond); err == nil {
		t.Error("expected error for missing file")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	empty := filepath.Join(t.TempDir(), "empty.mp4")
	if err := os.WriteFile(empty, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := waitStable(ctx, empty, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("waitStable() = %v, want context.Canceled", err)
	}
}

func TestWaitStableEmptyFile(t *testing.T) {
	empty := filepath.Join(t.TempDir(), "empty.mp4")
	if err := os.WriteFile(empty, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := waitStable(context.Background(), empty, time.Millisecond); !errors.Is(err, ErrEmptyFile) {
		t.Errorf("waitStable() = %v, want ErrEmptyFile", err)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, b *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(b.String(), want) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("output %q never contained %q", b.String(), want)
}

func TestFollow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.log")
	if err := os.WriteFile(path, []byte("[1/3] Extracting audio\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var out syncBuffer
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Follow(ctx, path, &out) }()

	waitFor(t, &out, "[1/3] Extracting audio")

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("[2/3] Transcribing\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()
	waitFor(t, &out, "[2/3] Transcribing")

	// Truncation restarts from the beginning of the new content.
	if err := os.WriteFile(path, []byte("new run\n"), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, &out, "new run")

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Follow() = %v", err)
	}
	if n := strings.Count(out.String(), "[1/3] Extracting audio"); n != 1 {
		t.Errorf("initial content printed %d times", n)
	}
}

func TestFollowMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "later.log")

	var out syncBuffer
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Follow(ctx, path, &out) }()

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("created\n"), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, &out, "created")

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Follow() = %v", err)
	}
}
