package transcribe

import (
	"fmt"

	"github.com/nguyentantai21042004/meeting-transcriber/internal/config"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/logger"
	"github.com/nguyentantai21042004/meeting-transcriber/pkg/executor"
)

// New creates the Transcriber selected by cfg.Whisper.Backend.
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) (Transcriber, error) {
	switch cfg.Whisper.Backend {
	case "whisper-cli", "":
		return NewWhisperCLI(cfg.Whisper, exec, log), nil
	case "openai":
		return NewOpenAI(cfg.OpenAI, log), nil
	default:
		return nil, fmt.Errorf("transcribe: unknown backend %q (supported: whisper-cli, openai)", cfg.Whisper.Backend)
	}
}
