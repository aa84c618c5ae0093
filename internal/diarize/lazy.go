package diarize

import (
	"context"
	"sync"

	"github.com/nguyentantai21042004/meeting-transcriber/internal/speaker"
)

// Lazy builds its Diarizer on first use and reuses it afterwards. A
// failed build is retried on the next call.
type Lazy struct {
	build func() (Diarizer, error)

	mu sync.Mutex
	d  Diarizer
}

// NewLazy wraps build.
func NewLazy(build func() (Diarizer, error)) *Lazy {
	return &Lazy{build: build}
}

func (l *Lazy) get() (Diarizer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.d != nil {
		return l.d, nil
	}
	d, err := l.build()
	if err != nil {
		return nil, err
	}
	l.d = d
	return d, nil
}

func (l *Lazy) Diarize(ctx context.Context, audioPath string, opts Options) ([]speaker.DiarizationSegment, error) {
	d, err := l.get()
	if err != nil {
		return nil, err
	}
	return d.Diarize(ctx, audioPath, opts)
}
