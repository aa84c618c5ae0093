package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/transcript"
)

// newJobDir creates an isolated temp dir per job so concurrent runs on
// videos with the same name do not clobber each other's audio.
func (p *implProcessor) newJobDir(videoPath string) (string, error) {
	dir := filepath.Join(p.cfg.Paths.Temp, transcript.Stem(videoPath)+"-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create job dir: %w", err)
	}
	return dir, nil
}

// extractAudio extracts 16kHz mono WAV audio into the job dir.
func (p *implProcessor) extractAudio(ctx context.Context, videoPath, jobDir string) (string, error) {
	p.logger.Info(ctx, "[1/3] Extracting audio: %s", videoPath)

	audioPath, err := p.media.ExtractAudio(ctx, videoPath, jobDir)
	if err != nil {
		return "", err
	}
	return audioPath, nil
}
