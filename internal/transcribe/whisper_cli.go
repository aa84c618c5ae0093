package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/meeting-transcriber/internal/config"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/logger"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/speaker"
	"github.com/nguyentantai21042004/meeting-transcriber/pkg/executor"
)

// WhisperCLI runs the whisper.cpp command line tool.
type WhisperCLI struct {
	cfg      config.WhisperConfig
	executor executor.Executor
	logger   logger.Logger
}

// NewWhisperCLI creates a whisper.cpp backed Transcriber.
func NewWhisperCLI(cfg config.WhisperConfig, exec executor.Executor, log logger.Logger) *WhisperCLI {
	return &WhisperCLI{cfg: cfg, executor: exec, logger: log}
}

// whisperJSON is the subset of whisper.cpp's -oj output we read.
type whisperJSON struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"` // milliseconds
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// Transcribe runs whisper.cpp on audioPath and reads the JSON it writes
// next to the audio file.
func (w *WhisperCLI) Transcribe(ctx context.Context, audioPath string, opts Options) (Result, error) {
	modelPath := ResolveModel(w.cfg, opts.Model)
	if _, err := os.Stat(modelPath); err != nil {
		return Result{}, fmt.Errorf("whisper model %s: %w", modelPath, err)
	}

	outputPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	jsonPath := outputPrefix + ".json"
	defer os.Remove(jsonPath)

	w.logger.Info(ctx, "Transcribing with whisper.cpp (%s, %d threads): %s",
		filepath.Base(modelPath), w.cfg.Threads, audioPath)

	// -oj: JSON output, -of: output prefix, -l: forced language
	args := []string{
		"-m", modelPath,
		"-f", audioPath,
		"-l", w.cfg.Language,
		"-t", strconv.Itoa(w.cfg.Threads),
		"-oj",
		"-of", outputPrefix,
	}
	if opts.MaxAccuracy {
		args = append(args, "-bo", "5", "-bs", "5")
	} else {
		args = append(args, "-bo", "1", "-nf")
	}
	if w.cfg.Prompt != "" {
		args = append(args, "--prompt", w.cfg.Prompt)
	}

	if _, err := w.executor.Execute(ctx, w.cfg.BinaryPath, args...); err != nil {
		return Result{}, fmt.Errorf("whisper transcribe: %w", err)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return Result{}, fmt.Errorf("read whisper output: %w", err)
	}
	res, err := parseWhisperJSON(data)
	if err != nil {
		return Result{}, err
	}
	if res.Language == "" {
		res.Language = w.cfg.Language
	}

	w.logger.Info(ctx, "Transcription completed: %d segments", len(res.Segments))
	return res, nil
}

func parseWhisperJSON(data []byte) (Result, error) {
	var out whisperJSON
	if err := json.Unmarshal(data, &out); err != nil {
		return Result{}, fmt.Errorf("parse whisper output: %w", err)
	}

	res := Result{Language: out.Result.Language}
	for _, t := range out.Transcription {
		text := strings.TrimSpace(t.Text)
		if text == "" {
			continue
		}
		seg := speaker.TranscriptSegment{
			Start: float64(t.Offsets.From) / 1000,
			End:   float64(t.Offsets.To) / 1000,
			Text:  text,
		}
		res.Segments = append(res.Segments, seg)
		res.Duration = max(res.Duration, seg.End)
	}
	return res, nil
}
