package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/wav"
)

// Whisper and the diarization models both expect 16kHz mono PCM.
const (
	SampleRate = 16000
	Channels   = 1
)

// AudioInfo describes a decoded WAV header.
type AudioInfo struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Duration   time.Duration
}

// ExtractAudio extracts audio from video file and converts to 16kHz mono WAV
func (m *implMedia) ExtractAudio(ctx context.Context, videoPath, dir string) (string, error) {
	if err := checkVideo(videoPath); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	audioPath := filepath.Join(dir, base+".wav")

	m.logger.Debug(ctx, "Extracting audio: %s -> %s", videoPath, audioPath)

	// -vn: drop video, pcm_s16le: 16-bit little-endian PCM
	args := []string{
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", fmt.Sprint(SampleRate),
		"-ac", fmt.Sprint(Channels),
		"-y",
		audioPath,
	}

	if _, err := m.executor.Execute(ctx, m.ffmpeg, args...); err != nil {
		return "", fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	info, err := InspectWAV(audioPath)
	if err != nil {
		return "", fmt.Errorf("inspect extracted audio: %w", err)
	}
	m.logger.Info(ctx, "Audio extracted: %s (%s, %dHz)", audioPath, info.Duration.Round(time.Second), info.SampleRate)

	return audioPath, nil
}

// InspectWAV reads the header of a WAV file.
func InspectWAV(path string) (AudioInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return AudioInfo{}, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return AudioInfo{}, fmt.Errorf("%s is not a valid WAV file", path)
	}
	if err := dec.FwdToPCM(); err != nil {
		return AudioInfo{}, fmt.Errorf("read WAV data chunk: %w", err)
	}

	info := AudioInfo{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}
	// Duration comes from the data chunk; the RIFF size also counts headers.
	if bytesPerSec := int64(info.SampleRate) * int64(info.Channels) * int64(info.BitDepth/8); bytesPerSec > 0 {
		info.Duration = time.Duration(dec.PCMLen() * int64(time.Second) / bytesPerSec)
	}
	return info, nil
}

func checkVideo(videoPath string) error {
	info, err := os.Stat(videoPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrVideoNotFound, videoPath)
		}
		return fmt.Errorf("stat video: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrVideoNotFound, videoPath)
	}
	return nil
}
