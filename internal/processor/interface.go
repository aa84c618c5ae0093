package processor

import (
	"context"
	"time"
)

// Request describes one transcription job.
type Request struct {
	VideoPath string
	// OutputPath defaults to <video dir>/<stem>_transcript.txt.
	OutputPath string
	// Model overrides whisper.model for this job.
	Model string
	// Fast disables beam search for quicker, less accurate recognition.
	Fast          bool
	NoDiarization bool
	// NumSpeakers fixes the speaker count; 0 estimates it.
	NumSpeakers int
}

// Result summarises a finished job.
type Result struct {
	OutputPath   string
	DocxPath     string
	Speakers     []string
	SegmentCount int
	Duration     time.Duration
}

// FrameResult is an extracted video frame and the text read from it.
type FrameResult struct {
	Path          string
	Lines         []string
	VideoDuration float64
}

// Processor runs the meeting transcription pipeline.
type Processor interface {
	Process(ctx context.Context, req Request) (Result, error)
	Frame(ctx context.Context, videoPath string, seconds float64) (FrameResult, error)
}
