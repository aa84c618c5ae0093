// Package ocr reads on-screen text (participant names, slide titles) from
// extracted video frames.
package ocr

import (
	"context"
	"errors"
	"strings"
)

// ErrUnavailable is returned by Tesseract in builds without libtesseract.
var ErrUnavailable = errors.New("ocr: built without tesseract support")

// Recognizer extracts text lines from an image file.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) ([]string, error)
}

// Noop is used when OCR is disabled.
type Noop struct{}

func (Noop) Recognize(context.Context, string) ([]string, error) { return nil, nil }

// Lines splits OCR output into trimmed, non-empty lines.
func Lines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
