package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Whisper     WhisperConfig     `yaml:"whisper"`
	OpenAI      OpenAIConfig      `yaml:"openai"`
	Diarization DiarizationConfig `yaml:"diarization"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Paths       PathsConfig       `yaml:"paths"`
	Transcript  TranscriptConfig  `yaml:"transcript"`
	OCR         OCRConfig         `yaml:"ocr"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	Export      ExportConfig      `yaml:"export"`
}

type WhisperConfig struct {
	Backend    string            `yaml:"backend"` // "whisper-cli" or "openai"
	BinaryPath string            `yaml:"binary_path"`
	Model      string            `yaml:"model"`
	ModelsDir  string            `yaml:"models_dir"`
	Models     map[string]string `yaml:"models"` // model name -> ggml file, overrides the built-in table
	Language   string            `yaml:"language"`
	Prompt     string            `yaml:"prompt"`
	Threads    int               `yaml:"threads"`
}

type OpenAIConfig struct {
	APIKey   string `yaml:"-"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Language string `yaml:"language"`
}

type DiarizationConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Backend   string        `yaml:"backend"` // "command" or "http"
	Command   string        `yaml:"command"`
	Args      []string      `yaml:"args"`
	WorkDir   string        `yaml:"work_dir"` // helper cwd, model downloads land here
	URL       string        `yaml:"url"`
	Threshold float64       `yaml:"threshold"`
	Timeout   time.Duration `yaml:"timeout"`
	HFToken   string        `yaml:"-"`
}

type FFmpegConfig struct {
	Binary  string `yaml:"binary"`
	FFprobe string `yaml:"ffprobe"`
}

type PathsConfig struct {
	Input   string `yaml:"input"`
	Output  string `yaml:"output"`
	Temp    string `yaml:"temp"`
	Frames  string `yaml:"frames"`
	LogFile string `yaml:"log_file"`
}

type TranscriptConfig struct {
	SpeakerPrefix string `yaml:"speaker_prefix"`
	UnknownLabel  string `yaml:"unknown_label"`
	SingleLabel   string `yaml:"single_label"` // used when diarization is skipped
}

type OCRConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Languages []string `yaml:"languages"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

type GeminiConfig struct {
	Model   string   `yaml:"model"`
	APIKeys []string `yaml:"-"`
}

type ExportConfig struct {
	Docx bool `yaml:"docx"`
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "meeting-transcriber")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// DefaultCacheDir holds downloaded models.
func DefaultCacheDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "meeting-transcriber")
}

// DefaultModelsDir is where ggml whisper models are looked up by name.
func DefaultModelsDir() string {
	return filepath.Join(DefaultCacheDir(), "models")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	tmp := os.TempDir()
	return &Config{
		Whisper: WhisperConfig{
			Backend:    "whisper-cli",
			BinaryPath: "whisper-cli",
			Model:      "medium",
			ModelsDir:  DefaultModelsDir(),
			Language:   "ja",
			Threads:    8,
		},
		OpenAI: OpenAIConfig{
			Model: "whisper-1",
		},
		Diarization: DiarizationConfig{
			Enabled:   true,
			Backend:   "command",
			Command:   "mt-diarize",
			WorkDir:   DefaultCacheDir(),
			Threshold: 0.5,
			Timeout:   30 * time.Minute,
		},
		FFmpeg: FFmpegConfig{
			Binary:  "ffmpeg",
			FFprobe: "ffprobe",
		},
		Paths: PathsConfig{
			Input:   "data/input",
			Output:  "data/output",
			Temp:    filepath.Join(tmp, "meeting_transcriber"),
			Frames:  tmp,
			LogFile: filepath.Join(tmp, "meeting-transcriber.log"),
		},
		Transcript: TranscriptConfig{
			SpeakerPrefix: "Speaker ",
			UnknownLabel:  "Unknown",
			SingleLabel:   "Speaker",
		},
		OCR: OCRConfig{
			Enabled:   true,
			Languages: []string{"jpn", "eng"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Performance: PerformanceConfig{
			MaxConcurrent: 1,
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
	}
}

// Load reads and parses a YAML config file. Missing fields keep their
// defaults, secrets are taken from the environment and ~ is expanded in paths.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.ApplyEnv()
	cfg.expandPaths()
	return cfg, nil
}

// Resolve picks the config to use: an explicit path, then $MT_CONFIG, then
// the default config file if it exists, then built-in defaults.
func Resolve(path string) (*Config, string, error) {
	if path == "" {
		path = os.Getenv("MT_CONFIG")
	}
	if path == "" {
		if _, err := os.Stat(DefaultConfigPath()); err == nil {
			path = DefaultConfigPath()
		}
	}
	if path == "" {
		cfg := Default()
		cfg.ApplyEnv()
		return cfg, "", nil
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("load %s: %w", path, err)
	}
	return cfg, path, nil
}

// ApplyEnv copies secrets and overrides from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("DIARIZE_HF_TOKEN"); v != "" {
		c.Diarization.HFToken = v
	} else if v := os.Getenv("HF_TOKEN"); v != "" {
		c.Diarization.HFToken = v
	}
	if v := os.Getenv("GEMINI_API_KEYS"); v != "" {
		c.Gemini.APIKeys = splitList(v)
	}
	if v := os.Getenv("MT_LOG_FILE"); v != "" {
		c.Paths.LogFile = v
	}
}

func (c *Config) Validate() error {
	switch c.Whisper.Backend {
	case "whisper-cli":
		if c.Whisper.BinaryPath == "" {
			return fmt.Errorf("whisper.binary_path is required")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("whisper.backend is openai but OPENAI_API_KEY is not set")
		}
	default:
		return fmt.Errorf("whisper.backend must be \"whisper-cli\" or \"openai\", got %q", c.Whisper.Backend)
	}

	if c.Diarization.Enabled {
		switch c.Diarization.Backend {
		case "command":
			if c.Diarization.Command == "" {
				return fmt.Errorf("diarization.command is required")
			}
		case "http":
			if c.Diarization.URL == "" {
				return fmt.Errorf("diarization.url is required")
			}
		default:
			return fmt.Errorf("diarization.backend must be \"command\" or \"http\", got %q", c.Diarization.Backend)
		}
	}

	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	case "":
		c.Logging.Level = "info"
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}

	if c.Whisper.Model == "" {
		c.Whisper.Model = "medium"
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "ja"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 8
	}
	if c.Whisper.ModelsDir == "" {
		c.Whisper.ModelsDir = DefaultModelsDir()
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "whisper-1"
	}
	if c.Diarization.Threshold == 0 {
		c.Diarization.Threshold = 0.5
	}
	if c.Diarization.WorkDir == "" {
		c.Diarization.WorkDir = DefaultCacheDir()
	}
	if c.Diarization.Timeout == 0 {
		c.Diarization.Timeout = 30 * time.Minute
	}
	if c.FFmpeg.Binary == "" {
		c.FFmpeg.Binary = "ffmpeg"
	}
	if c.FFmpeg.FFprobe == "" {
		c.FFmpeg.FFprobe = "ffprobe"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = filepath.Join(os.TempDir(), "meeting_transcriber")
	}
	if c.Paths.Frames == "" {
		c.Paths.Frames = os.TempDir()
	}
	if c.Transcript.SpeakerPrefix == "" {
		c.Transcript.SpeakerPrefix = "Speaker "
	}
	if c.Transcript.UnknownLabel == "" {
		c.Transcript.UnknownLabel = "Unknown"
	}
	if c.Transcript.SingleLabel == "" {
		c.Transcript.SingleLabel = "Speaker"
	}
	if len(c.OCR.Languages) == 0 {
		c.OCR.Languages = []string{"jpn", "eng"}
	}
	if c.Performance.MaxConcurrent <= 0 {
		c.Performance.MaxConcurrent = 1
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}

	return nil
}

func (c *Config) expandPaths() {
	for _, p := range []*string{
		&c.Whisper.BinaryPath,
		&c.Whisper.ModelsDir,
		&c.Diarization.Command,
		&c.Diarization.WorkDir,
		&c.Paths.Input,
		&c.Paths.Output,
		&c.Paths.Temp,
		&c.Paths.Frames,
		&c.Paths.LogFile,
	} {
		*p = expandTilde(*p)
	}
	for name, file := range c.Whisper.Models {
		c.Whisper.Models[name] = expandTilde(file)
	}
}

// expandTilde replaces a leading ~ with the user's home directory.
func expandTilde(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
