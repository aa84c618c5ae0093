// Package diarize finds who spoke when by calling an external
// diarization model, either a helper command or an HTTP service.
package diarize

import (
	"context"
	"errors"

	"github.com/nguyentantai21042004/meeting-transcriber/internal/speaker"
)

// ErrUnavailable is returned when the configured diarization backend
// cannot be reached or found.
var ErrUnavailable = errors.New("diarization backend unavailable")

// Options tune a single diarization run.
type Options struct {
	// NumSpeakers fixes the speaker count. 0 lets the model estimate it
	// using the configured clustering threshold.
	NumSpeakers int
}

// Diarizer segments audio by speaker.
type Diarizer interface {
	Diarize(ctx context.Context, audioPath string, opts Options) ([]speaker.DiarizationSegment, error)
}
