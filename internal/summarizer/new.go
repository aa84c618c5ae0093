package summarizer

import (
	"context"
	"sync"

	"github.com/nguyentantai21042004/meeting-transcriber/internal/config"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/logger"
)

// generateFunc sends prompt to the model using one API key.
type generateFunc func(ctx context.Context, apiKey, model, prompt string) (string, error)

type implSummarizer struct {
	apiKeys  []string
	model    string
	docx     bool
	logger   logger.Logger
	generate generateFunc

	mu         sync.Mutex
	currentKey int
}

// New creates a Summarizer that rotates through the configured Gemini API
// keys. With exportDocx set each summary is also saved as DOCX.
func New(cfg config.GeminiConfig, exportDocx bool, log logger.Logger) (Summarizer, error) {
	if len(cfg.APIKeys) == 0 {
		return nil, ErrNoAPIKeys
	}
	return &implSummarizer{
		apiKeys:  cfg.APIKeys,
		model:    cfg.Model,
		docx:     exportDocx,
		logger:   log,
		generate: generateGemini,
	}, nil
}
