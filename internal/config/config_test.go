package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "unknown whisper backend",
			mutate:  func(c *Config) { c.Whisper.Backend = "mlx" },
			wantErr: true,
		},
		{
			name: "openai backend without key",
			mutate: func(c *Config) {
				c.Whisper.Backend = "openai"
				c.OpenAI.APIKey = ""
			},
			wantErr: true,
		},
		{
			name: "openai backend with key",
			mutate: func(c *Config) {
				c.Whisper.Backend = "openai"
				c.OpenAI.APIKey = "sk-test"
			},
			wantErr: false,
		},
		{
			name: "http diarization without url",
			mutate: func(c *Config) {
				c.Diarization.Backend = "http"
				c.Diarization.URL = ""
			},
			wantErr: true,
		},
		{
			name: "disabled diarization skips backend checks",
			mutate: func(c *Config) {
				c.Diarization.Enabled = false
				c.Diarization.Backend = "bogus"
			},
			wantErr: false,
		},
		{
			name:    "missing output path",
			mutate:  func(c *Config) { c.Paths.Output = "" },
			wantErr: true,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateFillsDefaults(t *testing.T) {
	cfg := &Config{
		Whisper:     WhisperConfig{Backend: "whisper-cli", BinaryPath: "whisper-cli"},
		Diarization: DiarizationConfig{Enabled: false},
		Paths:       PathsConfig{Output: "out"},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Whisper.Model != "medium" {
		t.Errorf("Whisper.Model = %q, want medium", cfg.Whisper.Model)
	}
	if cfg.Performance.MaxConcurrent != 1 {
		t.Errorf("MaxConcurrent = %d, want 1", cfg.Performance.MaxConcurrent)
	}
	if cfg.Transcript.UnknownLabel != "Unknown" {
		t.Errorf("UnknownLabel = %q, want Unknown", cfg.Transcript.UnknownLabel)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoad(t *testing.T) {
	content := `
whisper:
  backend: whisper-cli
  binary_path: ~/bin/whisper-cli
  model: large
  language: en
  models:
    large: /models/ggml-large-v3.bin

diarization:
  backend: http
  url: http://localhost:8008
  timeout: 5m

paths:
  input: "data/input"
  output: "data/output"

transcript:
  speaker_prefix: "発話者"
  unknown_label: "不明"

logging:
  level: debug
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	home, _ := os.UserHomeDir()
	if cfg.Whisper.BinaryPath != filepath.Join(home, "bin/whisper-cli") {
		t.Errorf("BinaryPath = %q, want tilde expanded", cfg.Whisper.BinaryPath)
	}
	if cfg.Whisper.Models["large"] != "/models/ggml-large-v3.bin" {
		t.Errorf("Models[large] = %q", cfg.Whisper.Models["large"])
	}
	if cfg.Diarization.Timeout != 5*time.Minute {
		t.Errorf("Diarization.Timeout = %v, want 5m", cfg.Diarization.Timeout)
	}
	if !cfg.Diarization.Enabled {
		t.Error("Diarization.Enabled should keep its default")
	}
	if cfg.Transcript.SpeakerPrefix != "発話者" {
		t.Errorf("SpeakerPrefix = %q", cfg.Transcript.SpeakerPrefix)
	}
	if cfg.OpenAI.APIKey != "sk-from-env" {
		t.Errorf("OpenAI.APIKey = %q, want value from env", cfg.OpenAI.APIKey)
	}
	if cfg.FFmpeg.Binary != "ffmpeg" {
		t.Errorf("FFmpeg.Binary = %q, want default", cfg.FFmpeg.Binary)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("whisper: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on malformed YAML")
	}
}

func TestResolveExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	if err := os.WriteFile(path, []byte("performance:\n  max_concurrent: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, used, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if used != path {
		t.Errorf("Resolve() used %q, want %q", used, path)
	}
	if cfg.Performance.MaxConcurrent != 3 {
		t.Errorf("MaxConcurrent = %d, want 3", cfg.Performance.MaxConcurrent)
	}
}

func TestApplyEnvGeminiKeys(t *testing.T) {
	t.Setenv("GEMINI_API_KEYS", "k1, k2,,k3 ")
	cfg := Default()
	cfg.ApplyEnv()
	if len(cfg.Gemini.APIKeys) != 3 || cfg.Gemini.APIKeys[2] != "k3" {
		t.Errorf("APIKeys = %v, want [k1 k2 k3]", cfg.Gemini.APIKeys)
	}
}

func TestLoadEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("MT_TEST_A=file\nMT_TEST_B=\"quoted value\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MT_TEST_A", "env")
	os.Unsetenv("MT_TEST_B")
	t.Cleanup(func() { os.Unsetenv("MT_TEST_B") })

	if err := LoadEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	if got := os.Getenv("MT_TEST_A"); got != "env" {
		t.Errorf("MT_TEST_A = %q, existing env must win", got)
	}
	if got := os.Getenv("MT_TEST_B"); got != "quoted value" {
		t.Errorf("MT_TEST_B = %q, want %q", got, "quoted value")
	}
}
