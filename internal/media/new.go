package media

import (
	"github.com/nguyentantai21042004/meeting-transcriber/internal/config"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/logger"
	"github.com/nguyentantai21042004/meeting-transcriber/pkg/executor"
)

type implMedia struct {
	ffmpeg    string
	ffprobe   string
	framesDir string
	executor  executor.Executor
	logger    logger.Logger
}

// New creates a Media backed by the ffmpeg binaries in cfg.
func New(cfg config.FFmpegConfig, framesDir string, exec executor.Executor, log logger.Logger) Media {
	return &implMedia{
		ffmpeg:    cfg.Binary,
		ffprobe:   cfg.FFprobe,
		framesDir: framesDir,
		executor:  exec,
		logger:    log,
	}
}
