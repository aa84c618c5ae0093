package diarize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nguyentantai21042004/meeting-transcriber/internal/config"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/logger"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/speaker"
	"github.com/nguyentantai21042004/meeting-transcriber/pkg/executor"
)

// Command runs a diarization helper that prints JSON segments on stdout.
type Command struct {
	cfg      config.DiarizationConfig
	executor executor.Executor
	logger   logger.Logger
}

// NewCommand creates a helper command backed Diarizer.
func NewCommand(cfg config.DiarizationConfig, exec executor.Executor, log logger.Logger) *Command {
	return &Command{cfg: cfg, executor: exec, logger: log}
}

func (c *Command) Diarize(ctx context.Context, audioPath string, opts Options) ([]speaker.DiarizationSegment, error) {
	bin, err := c.executor.LookPath(c.cfg.Command)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	// The helper runs inside WorkDir, so a relative path must be pinned to
	// the current directory first.
	if !filepath.IsAbs(bin) {
		if bin, err = filepath.Abs(bin); err != nil {
			return nil, fmt.Errorf("resolve %s: %w", c.cfg.Command, err)
		}
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	args := append([]string(nil), c.cfg.Args...)
	args = append(args, "--audio", audioPath)
	if opts.NumSpeakers > 0 {
		args = append(args, "--num-speakers", strconv.Itoa(opts.NumSpeakers))
	} else {
		args = append(args, "--threshold", strconv.FormatFloat(c.cfg.Threshold, 'f', -1, 64))
	}

	if c.cfg.WorkDir != "" {
		if err := os.MkdirAll(c.cfg.WorkDir, 0755); err != nil {
			return nil, fmt.Errorf("create diarization work dir: %w", err)
		}
	}

	c.logger.Info(ctx, "Diarizing with %s: %s", c.cfg.Command, audioPath)
	out, err := c.executor.ExecuteInDir(ctx, c.cfg.WorkDir, bin, args...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("diarization timed out after %s: %w", c.cfg.Timeout, err)
		}
		return nil, fmt.Errorf("diarization: %w", err)
	}

	segs, err := parseSegments([]byte(out))
	if err != nil {
		return nil, fmt.Errorf("%s returned %w", c.cfg.Command, err)
	}
	c.logger.Info(ctx, "Diarization completed: %d segments", len(segs))
	return segs, nil
}
