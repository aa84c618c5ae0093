//go:build !cgo || notesseract

package ocr

import (
	"context"
	"errors"
	"testing"
)

func TestTesseractUnavailable(t *testing.T) {
	_, err := NewTesseract([]string{"eng"}).Recognize(context.Background(), "frame.jpg")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Recognize() error = %v, want ErrUnavailable", err)
	}
}
