package media

import (
	"context"
	"errors"
)

var (
	// ErrVideoNotFound is returned when the input video does not exist.
	ErrVideoNotFound = errors.New("video file not found")
	// ErrTimestampOutOfRange is returned for frame requests outside the video.
	ErrTimestampOutOfRange = errors.New("timestamp out of range")
)

// Media wraps the ffmpeg and ffprobe operations the pipeline needs.
type Media interface {
	// ExtractAudio writes 16kHz mono PCM WAV audio of videoPath into dir
	// and returns its path.
	ExtractAudio(ctx context.Context, videoPath, dir string) (string, error)
	// Duration returns the length of the video in seconds.
	Duration(ctx context.Context, videoPath string) (float64, error)
	// ExtractFrame saves the frame at seconds as JPEG. duration is the
	// already probed video length; zero or less probes it here. An empty
	// outputPath uses <frames dir>/<stem>_frame_<seconds>s.jpg.
	ExtractFrame(ctx context.Context, videoPath string, seconds, duration float64, outputPath string) (string, error)
}
