// Package transcribe runs speech recognition on extracted meeting audio.
//
// Backends:
//   - whisper-cli: the whisper.cpp command line tool, JSON output
//   - openai: the OpenAI transcription API, verbose_json output
package transcribe

import (
	"context"

	"github.com/nguyentantai21042004/meeting-transcriber/internal/speaker"
)

// Options are per-call recognition settings.
type Options struct {
	// Model is a size name (tiny, base, small, medium, large, large-v3,
	// turbo) or a path to a model file.
	Model string
	// MaxAccuracy trades speed for beam search and temperature fallback.
	MaxAccuracy bool
}

// Result is the recognised speech of one audio file.
type Result struct {
	Language string
	Duration float64
	Segments []speaker.TranscriptSegment
}

// Transcriber converts an audio file into timed text segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, opts Options) (Result, error)
}
