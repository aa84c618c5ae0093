package transcribe

import (
	"context"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/meeting-transcriber/internal/config"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/logger"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/speaker"
	"github.com/sashabaranov/go-openai"
)

// OpenAI transcribes through the OpenAI audio transcription endpoint.
type OpenAI struct {
	client   *openai.Client
	model    string
	language string
	logger   logger.Logger
}

// NewOpenAI creates an OpenAI backed Transcriber.
func NewOpenAI(cfg config.OpenAIConfig, log logger.Logger) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAI{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		language: cfg.Language,
		logger:   log,
	}
}

// Transcribe uploads audioPath and converts the verbose_json segments.
// Local model size names in opts.Model are ignored; API model ids
// ("whisper-1", "gpt-4o-transcribe", ...) override the configured model.
func (o *OpenAI) Transcribe(ctx context.Context, audioPath string, opts Options) (Result, error) {
	model := o.model
	if strings.HasPrefix(opts.Model, "whisper-") || strings.HasPrefix(opts.Model, "gpt-") {
		model = opts.Model
	}

	o.logger.Info(ctx, "Transcribing with OpenAI (%s): %s", model, audioPath)

	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    model,
		FilePath: audioPath,
		Language: o.language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return Result{}, fmt.Errorf("openai transcribe: %w", err)
	}

	res := Result{Language: resp.Language, Duration: resp.Duration}
	for _, s := range resp.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		res.Segments = append(res.Segments, speaker.TranscriptSegment{Start: s.Start, End: s.End, Text: text})
	}
	// Models without segment timings still produce usable text.
	if len(res.Segments) == 0 && strings.TrimSpace(resp.Text) != "" {
		res.Segments = []speaker.TranscriptSegment{{Start: 0, End: resp.Duration, Text: strings.TrimSpace(resp.Text)}}
	}

	o.logger.Info(ctx, "Transcription completed: %d segments", len(res.Segments))
	return res, nil
}
