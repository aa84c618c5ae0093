//go:build cgo && !notesseract

package ocr

import (
	"context"
	"fmt"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract recognises text with libtesseract. A tesseract client is not
// safe for concurrent use, so calls are serialised.
type Tesseract struct {
	languages []string

	mu sync.Mutex
}

// NewTesseract creates a Recognizer for the given tesseract language codes.
func NewTesseract(languages []string) *Tesseract {
	return &Tesseract{languages: languages}
}

func (t *Tesseract) Recognize(ctx context.Context, imagePath string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	client := gosseract.NewClient()
	defer client.Close()

	if len(t.languages) > 0 {
		if err := client.SetLanguage(t.languages...); err != nil {
			return nil, fmt.Errorf("ocr languages: %w", err)
		}
	}
	if err := client.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("ocr image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("ocr: %w", err)
	}
	return Lines(text), nil
}
