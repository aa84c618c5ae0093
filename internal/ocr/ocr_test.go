package ocr

import (
	"context"
	"reflect"
	"testing"
)

func TestLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"blank lines", "\n  \n\t\n", nil},
		{"names", "  田中 太郎 \n\nJohn Smith\n", []string{"田中 太郎", "John Smith"}},
		{"crlf", "Alice\r\nBob\r\n", []string{"Alice", "Bob"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Lines(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Lines(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNoop(t *testing.T) {
	lines, err := Noop{}.Recognize(context.Background(), "frame.jpg")
	if err != nil || lines != nil {
		t.Errorf("Noop.Recognize() = %v, %v", lines, err)
	}
}

func TestTesseractCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewTesseract([]string{"eng"}).Recognize(ctx, "frame.jpg"); err == nil {
		t.Error("expected context error")
	}
}
