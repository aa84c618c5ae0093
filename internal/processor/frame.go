package processor

import (
	"context"
	"fmt"
)

// Frame extracts the frame at seconds and reads any on-screen text from it.
// OCR failures are logged and leave Lines empty.
func (p *implProcessor) Frame(ctx context.Context, videoPath string, seconds float64) (FrameResult, error) {
	duration, err := p.media.Duration(ctx, videoPath)
	if err != nil {
		return FrameResult{}, fmt.Errorf("probe video: %w", err)
	}

	path, err := p.media.ExtractFrame(ctx, videoPath, seconds, duration, "")
	if err != nil {
		return FrameResult{VideoDuration: duration}, err
	}
	lines, err := p.ocr.Recognize(ctx, path)
	if err != nil {
		p.logger.Warn(ctx, "OCR failed for %s: %v", path, err)
		lines = nil
	}

	return FrameResult{Path: path, Lines: lines, VideoDuration: duration}, nil
}
