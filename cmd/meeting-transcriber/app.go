package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/nguyentantai21042004/meeting-transcriber/internal/config"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/diarize"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/logger"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/media"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/ocr"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/processor"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/summarizer"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/transcribe"
	"github.com/nguyentantai21042004/meeting-transcriber/pkg/executor"
)

// app holds what every command shares: flags, config and the logger.
type app struct {
	configPath string
	verbose    bool

	cfg      *config.Config
	log      logger.Logger
	closeLog func() error
	exec     executor.Executor
}

// setup loads .env files and the config, then opens the logger. Progress
// goes to stderr and the log file that `logs` follows.
func (a *app) setup(ctx context.Context) error {
	if err := config.LoadDefaultEnv(); err != nil {
		return err
	}

	cfg, path, err := config.Resolve(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}

	log, closeLog, err := logger.NewWithFile(cfg.Logging.Level, cfg.Paths.LogFile)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log
	a.closeLog = closeLog
	a.exec = executor.New()

	if path != "" {
		log.Debug(ctx, "Configuration loaded from %s", path)
	} else {
		log.Debug(ctx, "Using built-in configuration")
	}
	return nil
}

func (a *app) close() {
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}

// newProcessor wires the media, speech and diarization backends.
func (a *app) newProcessor() (processor.Processor, error) {
	tr, err := transcribe.New(a.cfg, a.exec, a.log)
	if err != nil {
		return nil, err
	}

	var diar diarize.Diarizer
	if a.cfg.Diarization.Enabled {
		// Model loading is the slow part, so the backend is built on the
		// first job only.
		diar = diarize.NewLazy(func() (diarize.Diarizer, error) {
			if !diarize.Available(a.cfg.Diarization, a.exec) {
				return nil, fmt.Errorf("%w: %s not found (install it or run with --no-diarization)",
					diarize.ErrUnavailable, a.cfg.Diarization.Command)
			}
			return diarize.New(a.cfg.Diarization, a.exec, a.log)
		})
	}

	var rec ocr.Recognizer = ocr.Noop{}
	if a.cfg.OCR.Enabled {
		rec = ocr.NewTesseract(a.cfg.OCR.Languages)
	}

	return processor.New(a.cfg, processor.Deps{
		Media:       media.New(a.cfg.FFmpeg, a.cfg.Paths.Frames, a.exec, a.log),
		Transcriber: tr,
		Diarizer:    diar,
		OCR:         rec,
	}, a.log), nil
}

// newSummarizer returns nil when no Gemini key is configured.
func (a *app) newSummarizer() (summarizer.Summarizer, error) {
	s, err := summarizer.New(a.cfg.Gemini, a.cfg.Export.Docx, a.log)
	if errors.Is(err, summarizer.ErrNoAPIKeys) {
		return nil, nil
	}
	return s, err
}
