package transcribe

import (
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/meeting-transcriber/internal/config"
)

// DefaultModel is used for empty or unknown model names.
const DefaultModel = "medium"

// ggmlModels maps model size names to whisper.cpp ggml files.
var ggmlModels = map[string]string{
	"tiny":     "ggml-tiny.bin",
	"base":     "ggml-base.bin",
	"small":    "ggml-small.bin",
	"medium":   "ggml-medium.bin",
	"large":    "ggml-large-v3.bin",
	"large-v3": "ggml-large-v3.bin",
	"turbo":    "ggml-large-v3-turbo.bin",
}

// ModelNames lists the accepted model size names.
func ModelNames() []string {
	return []string{"tiny", "base", "small", "medium", "large", "large-v3", "turbo"}
}

// ResolveModel turns a model name into a model file path. Paths are
// returned as is, configured overrides win over the built-in table, and
// unknown names fall back to DefaultModel.
func ResolveModel(cfg config.WhisperConfig, name string) string {
	if strings.ContainsRune(name, filepath.Separator) || strings.HasSuffix(name, ".bin") {
		return name
	}
	if name == "" {
		name = cfg.Model
	}
	if p, ok := cfg.Models[name]; ok {
		return p
	}
	file, ok := ggmlModels[name]
	if !ok {
		if p, ok := cfg.Models[DefaultModel]; ok {
			return p
		}
		file = ggmlModels[DefaultModel]
	}
	return filepath.Join(cfg.ModelsDir, file)
}
