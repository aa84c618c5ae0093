package diarize

import (
	"fmt"

	"github.com/nguyentantai21042004/meeting-transcriber/internal/config"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/logger"
	"github.com/nguyentantai21042004/meeting-transcriber/pkg/executor"
)

// New creates the Diarizer selected by cfg.Backend.
func New(cfg config.DiarizationConfig, exec executor.Executor, log logger.Logger) (Diarizer, error) {
	switch cfg.Backend {
	case "command", "":
		return NewCommand(cfg, exec, log), nil
	case "http":
		return NewHTTP(cfg, log), nil
	default:
		return nil, fmt.Errorf("diarize: unknown backend %q (supported: command, http)", cfg.Backend)
	}
}

// Available reports whether the configured backend looks usable without
// running it. HTTP backends are assumed reachable.
func Available(cfg config.DiarizationConfig, exec executor.Executor) bool {
	if !cfg.Enabled {
		return false
	}
	if cfg.Backend == "http" {
		return cfg.URL != ""
	}
	_, err := exec.LookPath(cfg.Command)
	return err == nil
}
