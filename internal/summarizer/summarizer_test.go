package summarizer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/meeting-transcriber/internal/config"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/logger"
	"github.com/nguyentantai21042004/meeting-transcriber/internal/transcript"
)

const minutes = `## Overview
The team reviewed the release.

- **Decision**: ship on Friday
1. Speaker 1 prepares notes`

func newTestSummarizer(t *testing.T, keys []string, gen generateFunc) *implSummarizer {
	t.Helper()
	s, err := New(config.GeminiConfig{Model: "gemini-test", APIKeys: keys}, false, logger.NewWriter("error", os.Stderr))
	if err != nil {
		t.Fatal(err)
	}
	impl := s.(*implSummarizer)
	impl.generate = gen
	return impl
}

func writeTranscript(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("Speaker 1 (00:00)\nLet's ship on Friday.\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestNewRequiresKeys(t *testing.T) {
	_, err := New(config.GeminiConfig{Model: "m"}, false, logger.NewWriter("error", os.Stderr))
	if !errors.Is(err, ErrNoAPIKeys) {
		t.Errorf("New() error = %v, want ErrNoAPIKeys", err)
	}
}

func TestSummarize(t *testing.T) {
	dir := t.TempDir()
	path := writeTranscript(t, dir, "standup_transcript.txt")

	var gotPrompt, gotModel string
	s := newTestSummarizer(t, []string{"k1"}, func(_ context.Context, key, model, prompt string) (string, error) {
		gotPrompt, gotModel = prompt, model
		return minutes, nil
	})

	md, err := s.Summarize(context.Background(), path, "")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if md != filepath.Join(dir, "standup_summary.md") {
		t.Errorf("path = %q", md)
	}
	if gotModel != "gemini-test" {
		t.Errorf("model = %q", gotModel)
	}
	if !strings.Contains(gotPrompt, "Let's ship on Friday.") {
		t.Error("prompt does not contain the transcript")
	}

	data, err := os.ReadFile(md)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# standup\n") || !strings.Contains(string(data), "ship on Friday") {
		t.Errorf("summary = %q", data)
	}
}

func TestSummarizeDocx(t *testing.T) {
	dir := t.TempDir()
	path := writeTranscript(t, dir, "standup_transcript.txt")
	s := newTestSummarizer(t, []string{"k1"}, func(context.Context, string, string, string) (string, error) {
		return minutes, nil
	})
	s.docx = true

	if _, err := s.Summarize(context.Background(), path, filepath.Join(dir, "out")); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "standup_summary.docx")); err != nil {
		t.Errorf("docx not written: %v", err)
	}
}

func TestSummarizeMissingTranscript(t *testing.T) {
	s := newTestSummarizer(t, []string{"k1"}, func(context.Context, string, string, string) (string, error) {
		t.Error("model should not be called")
		return "", nil
	})
	_, err := s.Summarize(context.Background(), filepath.Join(t.TempDir(), "nope.txt"), "")
	if !errors.Is(err, transcript.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestKeyRotation(t *testing.T) {
	path := writeTranscript(t, t.TempDir(), "a_transcript.txt")

	t.Run("rotates on quota errors", func(t *testing.T) {
		var used []string
		s := newTestSummarizer(t, []string{"k1", "k2", "k3"}, func(_ context.Context, key, _, _ string) (string, error) {
			used = append(used, key)
			if key != "k3" {
				return "", errors.New("Error 429, Message: RESOURCE_EXHAUSTED")
			}
			return minutes, nil
		})
		if _, err := s.Summarize(context.Background(), path, ""); err != nil {
			t.Fatalf("Summarize() error = %v", err)
		}
		if strings.Join(used, ",") != "k1,k2,k3" {
			t.Errorf("keys used = %v", used)
		}
		if s.currentKey != 2 {
			t.Errorf("currentKey = %d, want 2 (sticks with the working key)", s.currentKey)
		}
	})

	t.Run("all exhausted", func(t *testing.T) {
		s := newTestSummarizer(t, []string{"k1", "k2"}, func(context.Context, string, string, string) (string, error) {
			return "", errors.New("quota exceeded")
		})
		_, err := s.Summarize(context.Background(), path, "")
		if err == nil || !strings.Contains(err.Error(), "all API keys exhausted") {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("other errors stop", func(t *testing.T) {
		calls := 0
		s := newTestSummarizer(t, []string{"k1", "k2"}, func(context.Context, string, string, string) (string, error) {
			calls++
			return "", errors.New("invalid argument")
		})
		if _, err := s.Summarize(context.Background(), path, ""); err == nil {
			t.Error("expected error")
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})
}

func TestSummarizeAll(t *testing.T) {
	dir := t.TempDir()
	writeTranscript(t, dir, "a_transcript.txt")
	writeTranscript(t, dir, "b_transcript.txt")
	writeTranscript(t, dir, "notes.txt")
	if err := os.WriteFile(filepath.Join(dir, "b_summary.md"), []byte("done"), 0644); err != nil {
		t.Fatal(err)
	}

	calls := 0
	s := newTestSummarizer(t, []string{"k1"}, func(context.Context, string, string, string) (string, error) {
		calls++
		return minutes, nil
	})

	n, err := s.SummarizeAll(context.Background(), dir, "")
	if err != nil {
		t.Fatalf("SummarizeAll() error = %v", err)
	}
	if n != 1 || calls != 1 {
		t.Errorf("summarized %d (calls %d), want 1", n, calls)
	}
	if _, err := os.Stat(filepath.Join(dir, "a_summary.md")); err != nil {
		t.Errorf("a_summary.md missing: %v", err)
	}
}

func TestMeetingName(t *testing.T) {
	tests := map[string]string{
		"/out/standup_transcript.txt": "standup",
		"/out/notes.txt":              "notes",
		"weekly_transcript":           "weekly",
	}
	for in, want := range tests {
		if got := meetingName(in); got != want {
			t.Errorf("meetingName(%q) = %q, want %q", in, got, want)
		}
	}
}
