package summarizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/nguyentantai21042004/meeting-transcriber/internal/transcript"
	"google.golang.org/genai"
)

const transcriptSuffix = "_transcript"

const summaryPrompt = `You are an experienced meeting secretary. Based on the speaker-labelled transcript below, write detailed meeting minutes in the SAME LANGUAGE as the transcript.

Requirements:
- Start with a one sentence overview of the meeting's purpose
- List the topics discussed in the order they came up, with who raised them
- Record every decision that was made
- List action items as bullet points with owner and due date when mentioned
- Keep speaker labels exactly as they appear in the transcript
- Use markdown: headings, bullet points, bold for key terms
- End with an "Open questions" section if anything was left unresolved

Transcript:
---
%s
---`

// Summarize reads one transcript, calls Gemini and writes <name>_summary.md.
func (s *implSummarizer) Summarize(ctx context.Context, transcriptPath, destDir string) (string, error) {
	content, err := transcript.Read(transcriptPath)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("transcript %s is empty", transcriptPath)
	}

	if destDir == "" {
		destDir = filepath.Dir(transcriptPath)
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("create dest dir: %w", err)
	}

	name := meetingName(transcriptPath)
	s.logger.Info(ctx, "Summarizing: %s", name)

	summary, err := s.callGemini(ctx, content)
	if err != nil {
		return "", fmt.Errorf("summarize %s: %w", name, err)
	}

	md := fmt.Sprintf("# %s\n\n_%s_\n\n%s\n",
		name,
		time.Now().Format("2006-01-02 15:04"),
		strings.TrimSpace(summary),
	)

	mdPath := filepath.Join(destDir, name+"_summary.md")
	if err := os.WriteFile(mdPath, []byte(md), 0644); err != nil {
		return "", fmt.Errorf("write summary: %w", err)
	}

	if s.docx {
		docxPath := strings.TrimSuffix(mdPath, ".md") + ".docx"
		if err := markdownToDocx(name, summary, docxPath); err != nil {
			s.logger.Warn(ctx, "Failed to export summary DOCX: %v", err)
		}
	}

	s.logger.Info(ctx, "[DONE] %s -> %s", name, mdPath)
	return mdPath, nil
}

// SummarizeAll summarizes every *_transcript.txt in dir that has no
// summary in destDir yet.
func (s *implSummarizer) SummarizeAll(ctx context.Context, dir, destDir string) (int, error) {
	files, err := discoverTranscripts(dir)
	if err != nil {
		return 0, fmt.Errorf("discover transcripts: %w", err)
	}
	if destDir == "" {
		destDir = dir
	}

	var todo []string
	for _, f := range files {
		if _, err := os.Stat(filepath.Join(destDir, meetingName(f)+"_summary.md")); err == nil {
			continue
		}
		todo = append(todo, f)
	}
	if len(todo) == 0 {
		s.logger.Info(ctx, "No new transcripts found in %s", dir)
		return 0, nil
	}

	s.logger.Info(ctx, "Found %d transcripts to summarize", len(todo))

	successCount := 0
	failCount := 0
	for i, path := range todo {
		if err := ctx.Err(); err != nil {
			return successCount, err
		}
		s.logger.Info(ctx, "[%d/%d] %s", i+1, len(todo), filepath.Base(path))
		if _, err := s.Summarize(ctx, path, destDir); err != nil {
			s.logger.Error(ctx, "Failed to summarize %s: %v", path, err)
			failCount++
			continue
		}
		successCount++
	}

	s.logger.Info(ctx, "Summary complete: %d success, %d failed", successCount, failCount)
	return successCount, nil
}

// callGemini sends the transcript to Gemini and returns the summary text.
// Rotates API keys on 429 / quota errors.
func (s *implSummarizer) callGemini(ctx context.Context, content string) (string, error) {
	prompt := fmt.Sprintf(summaryPrompt, content)

	var lastErr error
	for range s.apiKeys {
		idx, key := s.key()

		text, err := s.generate(ctx, key, s.model, prompt)
		if err == nil {
			return text, nil
		}
		if !isQuotaError(err) {
			return "", err
		}
		s.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
		s.rotateKey(idx)
		lastErr = err
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (s *implSummarizer) key() (int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentKey, s.apiKeys[s.currentKey]
}

// rotateKey moves past idx unless another caller already did.
func (s *implSummarizer) rotateKey(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentKey == idx {
		s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	}
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

// generateGemini calls the Gemini API with one key.
func generateGemini(ctx context.Context, apiKey, model, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text strings.Builder
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				text.WriteString(part.Text)
			}
		}
		return text.String(), nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}

// meetingName strips the directory, extension and _transcript suffix.
func meetingName(path string) string {
	return strings.TrimSuffix(transcript.Stem(path), transcriptSuffix)
}

func discoverTranscripts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if strings.HasSuffix(e.Name(), transcriptSuffix+".txt") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}
