package watcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Follow copies the file at path to out and keeps copying what is
// appended to it until ctx is done, like tail -f. A truncated or
// recreated file is read again from the start.
func Follow(ctx context.Context, path string, out io.Writer) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	// Watch the directory so removal and recreation are seen too.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	t := &tail{path: path, out: out}
	if err := t.copyNew(); err != nil {
		return err
	}

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				t.offset = 0
				continue
			}
			if err := t.copyNew(); err != nil {
				return err
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("follow %s: %w", path, err)
		}
	}
}

type tail struct {
	path   string
	out    io.Writer
	offset int64
}

func (t *tail) copyNew() error {
	f, err := os.Open(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			t.offset = 0
			return nil
		}
		return fmt.Errorf("open %s: %w", t.path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size() < t.offset {
		t.offset = 0
	}
	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		return err
	}
	n, err := io.Copy(t.out, f)
	t.offset += n
	return err
}
