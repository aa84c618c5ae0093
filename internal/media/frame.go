package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Duration asks ffprobe for the container duration.
func (m *implMedia) Duration(ctx context.Context, videoPath string) (float64, error) {
	if err := checkVideo(videoPath); err != nil {
		return 0, err
	}

	out, err := m.executor.Execute(ctx, m.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w", err)
	}

	return parseDuration(out)
}

// ExtractFrame saves one high quality JPEG frame at the given second.
func (m *implMedia) ExtractFrame(ctx context.Context, videoPath string, seconds, duration float64, outputPath string) (string, error) {
	if duration <= 0 {
		d, err := m.Duration(ctx, videoPath)
		if err != nil {
			return "", err
		}
		duration = d
	} else if err := checkVideo(videoPath); err != nil {
		return "", err
	}
	if seconds < 0 || seconds > duration {
		return "", fmt.Errorf("%w: %gs is outside 0-%.1fs", ErrTimestampOutOfRange, seconds, duration)
	}

	if outputPath == "" {
		base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
		outputPath = filepath.Join(m.framesDir, fmt.Sprintf("%s_frame_%ds.jpg", base, int(seconds)))
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return "", fmt.Errorf("create frames dir: %w", err)
	}
	// A stale frame from an earlier call must not pass for a fresh one.
	_ = os.Remove(outputPath)

	// -ss before -i seeks on the input, -q:v 2 is near-lossless JPEG
	args := []string{
		"-ss", strconv.FormatFloat(seconds, 'f', 3, 64),
		"-i", videoPath,
		"-frames:v", "1",
		"-q:v", "2",
		"-y",
		outputPath,
	}
	if _, err := m.executor.Execute(ctx, m.ffmpeg, args...); err != nil {
		return "", fmt.Errorf("ffmpeg extract frame: %w", err)
	}

	// ffmpeg exits 0 without writing anything when the seek lands past the
	// last decodable frame.
	if info, err := os.Stat(outputPath); err != nil || info.Size() == 0 {
		return "", fmt.Errorf("could not read frame at %gs", seconds)
	}

	m.logger.Info(ctx, "Frame extracted at %gs: %s", seconds, outputPath)
	return outputPath, nil
}

func parseDuration(out string) (float64, error) {
	s := strings.TrimSpace(out)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	d, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected ffprobe duration %q", s)
	}
	return d, nil
}
