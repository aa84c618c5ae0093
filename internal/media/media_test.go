package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/config"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/logger"
	"github.com/nguyentantai21042004/meeting-transcriber/pkg/executor/executortest"
)

// writeWAV writes seconds of 16kHz mono silence to path.
func writeWAV(t *testing.T, path string, seconds int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, SampleRate, 16, Channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: Channels, SampleRate: SampleRate},
		Data:           make([]int, SampleRate*seconds),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}
}

func newTestMedia(fake *executortest.Fake, framesDir string) Media {
	return New(config.FFmpegConfig{Binary: "ffmpeg", FFprobe: "ffprobe"}, framesDir, fake, logger.NewWriter("error", os.Stderr))
}

func TestExtractAudio(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "meeting.mp4")
	touch(t, video)

	fake := &executortest.Fake{Handler: func(c executortest.Call) (string, error) {
		writeWAV(t, c.Last(), 2)
		return "", nil
	}}
	m := newTestMedia(fake, dir)

	got, err := m.ExtractAudio(context.Background(), video, filepath.Join(dir, "work"))
	if err != nil {
		t.Fatalf("ExtractAudio() error = %v", err)
	}
	if want := filepath.Join(dir, "work", "meeting.wav"); got != want {
		t.Errorf("ExtractAudio() = %q, want %q", got, want)
	}

	calls := fake.Calls()
	if len(calls) != 1 || calls[0].Name != "ffmpeg" {
		t.Fatalf("calls = %+v", calls)
	}
	c := calls[0]
	if c.Arg("-i") != video || c.Arg("-ar") != "16000" || c.Arg("-ac") != "1" || c.Arg("-acodec") != "pcm_s16le" {
		t.Errorf("unexpected ffmpeg args: %v", c.Args)
	}
}

func TestExtractAudioMissingVideo(t *testing.T) {
	m := newTestMedia(&executortest.Fake{}, t.TempDir())
	_, err := m.ExtractAudio(context.Background(), "/no/such/video.mp4", t.TempDir())
	if !errors.Is(err, ErrVideoNotFound) {
		t.Errorf("ExtractAudio() error = %v, want ErrVideoNotFound", err)
	}
}

func TestExtractAudioRejectsInvalidOutput(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "v.mp4")
	touch(t, video)
	fake := &executortest.Fake{Handler: func(c executortest.Call) (string, error) {
		return "", os.WriteFile(c.Last(), []byte("not a wav"), 0644)
	}}
	if _, err := newTestMedia(fake, dir).ExtractAudio(context.Background(), video, dir); err == nil {
		t.Error("ExtractAudio() should reject a non-WAV output")
	}
}

func TestInspectWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.wav")
	writeWAV(t, path, 3)

	info, err := InspectWAV(path)
	if err != nil {
		t.Fatalf("InspectWAV() error = %v", err)
	}
	if info.SampleRate != 16000 || info.Channels != 1 || info.BitDepth != 16 {
		t.Errorf("InspectWAV() = %+v", info)
	}
	if info.Duration != 3*time.Second {
		t.Errorf("Duration = %v, want 3s", info.Duration)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"123.456000\n", 123.456, false},
		{"  42\n\n", 42, false},
		{"N/A\n", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseDuration(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseDuration(%q) = %v, %v; want %v, err %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestExtractFrame(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "standup.mov")
	touch(t, video)

	fake := &executortest.Fake{Handler: func(c executortest.Call) (string, error) {
		switch c.Name {
		case "ffprobe":
			return "600.0\n", nil
		case "ffmpeg":
			return "", os.WriteFile(c.Last(), []byte{0xff, 0xd8, 0xff}, 0644)
		}
		return "", nil
	}}
	m := newTestMedia(fake, filepath.Join(dir, "frames"))

	got, err := m.ExtractFrame(context.Background(), video, 90.5, 0, "")
	if err != nil {
		t.Fatalf("ExtractFrame() error = %v", err)
	}
	if want := filepath.Join(dir, "frames", "standup_frame_90s.jpg"); got != want {
		t.Errorf("ExtractFrame() = %q, want %q", got, want)
	}

	calls := fake.Calls()
	if len(calls) != 2 {
		t.Fatalf("expected ffprobe + ffmpeg, got %+v", calls)
	}
	if calls[1].Arg("-ss") != "90.500" || calls[1].Arg("-frames:v") != "1" {
		t.Errorf("unexpected ffmpeg args: %v", calls[1].Args)
	}
}

func TestExtractFrameKnownDuration(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "v.mp4")
	touch(t, video)
	fake := &executortest.Fake{Handler: func(c executortest.Call) (string, error) {
		if c.Name == "ffmpeg" {
			return "", os.WriteFile(c.Last(), []byte{0xff, 0xd8, 0xff}, 0644)
		}
		return "", errors.New("unexpected " + c.Name)
	}}
	m := newTestMedia(fake, dir)

	if _, err := m.ExtractFrame(context.Background(), video, 5, 60, ""); err != nil {
		t.Fatalf("ExtractFrame() error = %v", err)
	}
	if _, err := m.ExtractFrame(context.Background(), video, 61, 60, ""); !errors.Is(err, ErrTimestampOutOfRange) {
		t.Errorf("ExtractFrame(61) error = %v, want ErrTimestampOutOfRange", err)
	}
	for _, c := range fake.Calls() {
		if c.Name == "ffprobe" {
			t.Errorf("ffprobe ran with a known duration: %v", c.Args)
		}
	}
}

func TestExtractFrameOutOfRange(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "v.mp4")
	touch(t, video)
	fake := &executortest.Fake{Handler: func(c executortest.Call) (string, error) {
		return "10.0", nil
	}}
	m := newTestMedia(fake, dir)

	for _, ts := range []float64{-1, 10.5} {
		if _, err := m.ExtractFrame(context.Background(), video, ts, 0, ""); !errors.Is(err, ErrTimestampOutOfRange) {
			t.Errorf("ExtractFrame(%v) error = %v, want ErrTimestampOutOfRange", ts, err)
		}
	}
}

func TestExtractFrameNoOutput(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "v.mp4")
	touch(t, video)
	fake := &executortest.Fake{Handler: func(c executortest.Call) (string, error) {
		if c.Name == "ffprobe" {
			return "10.0", nil
		}
		return "", nil
	}}
	if _, err := newTestMedia(fake, dir).ExtractFrame(context.Background(), video, 10, 0, ""); err == nil {
		t.Error("ExtractFrame() should fail when ffmpeg writes no frame")
	}
}
