//go:build !cgo || notesseract

package ocr

import "context"

// Tesseract is unavailable in this build. Rebuild with cgo and libtesseract
// installed to enable OCR.
type Tesseract struct {
	languages []string
}

func NewTesseract(languages []string) *Tesseract {
	return &Tesseract{languages: languages}
}

func (t *Tesseract) Recognize(ctx context.Context, imagePath string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, ErrUnavailable
}
