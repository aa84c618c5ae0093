package summarizer

import (
	"context"
	"errors"
)

// ErrNoAPIKeys is returned by New when no Gemini API key is configured.
var ErrNoAPIKeys = errors.New("no Gemini API keys configured (set GEMINI_API_KEYS)")

// Summarizer reads meeting transcripts and produces LLM-generated
// markdown minutes.
type Summarizer interface {
	// Summarize writes minutes for one transcript into destDir and
	// returns the markdown path. An empty destDir means next to the
	// transcript.
	Summarize(ctx context.Context, transcriptPath, destDir string) (string, error)
	// SummarizeAll summarizes every transcript in dir that has no minutes
	// in destDir yet, and returns how many were written.
	SummarizeAll(ctx context.Context, dir, destDir string) (int, error)
}
