package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fatih/color"
)

var levels = map[string]int{
	"debug": 0,
	"info":  1,
	"warn":  2,
	"error": 3,
}

type implLogger struct {
	console *log.Logger
	file    *log.Logger
	level   string
	tags    map[string]string
}

// New creates a Logger writing to stderr. Stdout is left alone because the
// MCP server speaks its protocol there.
func New(level string) Logger {
	return newLogger(level, os.Stderr, nil, !color.NoColor)
}

// NewWriter creates an uncoloured Logger writing to w.
func NewWriter(level string, w io.Writer) Logger {
	return newLogger(level, w, nil, false)
}

// NewWithFile creates a Logger writing to stderr and appending to the
// progress log at path, which `meeting-transcriber logs` follows.
// The returned func closes the file.
func NewWithFile(level, path string) (Logger, func() error, error) {
	if path == "" {
		return New(level), func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return newLogger(level, os.Stderr, &syncWriter{w: f}, !color.NoColor), f.Close, nil
}

func newLogger(level string, console io.Writer, file io.Writer, colored bool) *implLogger {
	l := &implLogger{
		console: log.New(console, "", log.LstdFlags),
		level:   strings.ToLower(level),
		tags: map[string]string{
			"debug": "[DEBUG]",
			"info":  "[INFO]",
			"warn":  "[WARN]",
			"error": "[ERROR]",
		},
	}
	if file != nil {
		l.file = log.New(file, "", log.LstdFlags)
	}
	if colored {
		paint := map[string]*color.Color{
			"debug": color.New(color.FgHiBlack),
			"info":  color.New(color.FgCyan),
			"warn":  color.New(color.FgYellow),
			"error": color.New(color.FgRed, color.Bold),
		}
		for lvl, c := range paint {
			c.EnableColor()
			l.tags[lvl] = c.Sprint(l.tags[lvl])
		}
	}
	return l
}

func (l *implLogger) shouldLog(level string) bool {
	currentLevel, ok := levels[l.level]
	if !ok {
		currentLevel = 1 // default to info
	}

	targetLevel, ok := levels[level]
	if !ok {
		return true
	}

	return targetLevel >= currentLevel
}

func (l *implLogger) write(level, msg string, args ...interface{}) {
	if !l.shouldLog(level) {
		return
	}
	line := fmt.Sprintf(msg, args...)
	l.console.Printf("%s %s", l.tags[level], line)
	if l.file != nil {
		l.file.Printf("[%s] %s", strings.ToUpper(level), line)
	}
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.write("debug", msg, args...)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.write("info", msg, args...)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.write("warn", msg, args...)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.write("error", msg, args...)
}

// syncWriter serializes writes from concurrent jobs into the shared log file.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
