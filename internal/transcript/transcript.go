// Package transcript renders speaker-labelled segments into the plain-text
// transcript format and edits existing transcript files.
//
// A transcript is a sequence of blocks:
//
//	Speaker 1 (00:03)
//	Good morning, everyone.
//
//	Speaker 2 (00:07)
//	Morning.
package transcript

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nguyentantai21042004/meeting-transcriber/internal/speaker"
)

// ErrNotFound is returned when a transcript file does not exist.
var ErrNotFound = errors.New("transcript not found")

// Block is one speaker turn: consecutive segments of the same speaker.
type Block struct {
	Speaker string
	Start   float64
	Text    string
}

// Merge collapses consecutive segments with the same speaker into blocks.
func Merge(segments []speaker.LabeledSegment) []Block {
	var blocks []Block
	var parts []string
	var cur *Block

	flush := func() {
		if cur == nil || len(parts) == 0 {
			return
		}
		cur.Text = strings.TrimSpace(joinParts(parts))
		blocks = append(blocks, *cur)
	}

	for _, seg := range segments {
		if cur != nil && seg.Speaker == cur.Speaker {
			parts = append(parts, seg.Text)
			continue
		}
		flush()
		cur = &Block{Speaker: seg.Speaker, Start: seg.Start}
		parts = []string{seg.Text}
	}
	flush()

	return blocks
}

// FormatTimestamp formats seconds as MM:SS. Minutes keep counting past 59.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes := int(math.Floor(seconds / 60))
	secs := int(math.Mod(seconds, 60))
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// Render produces the transcript text for blocks.
func Render(blocks []Block) string {
	lines := make([]string, 0, len(blocks)*3)
	for _, b := range blocks {
		lines = append(lines, fmt.Sprintf("%s (%s)", b.Speaker, FormatTimestamp(b.Start)))
		lines = append(lines, b.Text)
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// Write renders blocks into path, creating its directory if needed.
func Write(path string, blocks []Block) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(Render(blocks)), 0644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

// Read returns the content of the transcript at path.
func Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("read transcript: %w", err)
	}
	return string(data), nil
}

// DefaultOutputPath is <video dir>/<video stem>_transcript.txt.
func DefaultOutputPath(videoPath string) string {
	return filepath.Join(filepath.Dir(videoPath), Stem(videoPath)+"_transcript.txt")
}

// Stem is the file name without directory and extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// joinParts concatenates segment texts. CJK text is joined directly, other
// scripts get a space between words.
func joinParts(parts []string) string {
	var sb strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if sb.Len() > 0 {
			last, _ := utf8.DecodeLastRuneInString(sb.String())
			first, _ := utf8.DecodeRuneInString(p)
			if needsSpace(last, first) {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(p)
	}
	return sb.String()
}

func needsSpace(last, first rune) bool {
	if unicode.IsSpace(last) || unicode.IsSpace(first) {
		return false
	}
	return !isCJK(last) && !isCJK(first)
}

func isCJK(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul) ||
		(r >= 0x3000 && r <= 0x303F) || // CJK punctuation
		(r >= 0xFF00 && r <= 0xFFEF) // full-width forms
}
