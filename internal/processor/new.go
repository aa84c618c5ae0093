package processor

import (
	"github.com/nguyentantai21042004/meeting-transcriber/internal/config"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/diarize"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/logger"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/media"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/ocr"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/transcribe"
)

// Deps are the model and media backends a Processor drives.
type Deps struct {
	Media       media.Media
	Transcriber transcribe.Transcriber
	// Diarizer may be nil when diarization is disabled.
	Diarizer diarize.Diarizer
	// OCR defaults to ocr.Noop.
	OCR ocr.Recognizer
}

type implProcessor struct {
	cfg         *config.Config
	media       media.Media
	transcriber transcribe.Transcriber
	diarizer    diarize.Diarizer
	ocr         ocr.Recognizer
	logger      logger.Logger
	sem         *semaphore
}

// New creates a new Processor. At most cfg.Performance.MaxConcurrent jobs
// run their models at the same time.
func New(cfg *config.Config, deps Deps, log logger.Logger) Processor {
	rec := deps.OCR
	if rec == nil {
		rec = ocr.Noop{}
	}
	return &implProcessor{
		cfg:         cfg,
		media:       deps.Media,
		transcriber: deps.Transcriber,
		diarizer:    deps.Diarizer,
		ocr:         rec,
		logger:      log,
		sem:         newSemaphore(max(cfg.Performance.MaxConcurrent, 1)),
	}
}
