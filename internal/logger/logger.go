package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultBuffer is how many lines the in-memory console keeps when Options.Buffer is zero.
const DefaultBuffer = 200

// Options configures New.
type Options struct {
	// Level is "debug", "info", "warn" or "error". Anything else means info.
	Level string
	// File receives every entry when set; otherwise entries go to stderr.
	File string
	// JSON selects the JSON encoder for the file/stderr output.
	JSON bool
	// Buffer caps the lines kept for the on-screen console.
	Buffer int
}

// Logger is a zap logger that also keeps recent lines in memory for the on-screen console.
type Logger struct {
	*zap.Logger
	lines *Lines
	file  *os.File
}

// New builds a logger writing to the configured output and to an in-memory line buffer.
func New(opts Options) (*Logger, error) {
	level := ParseLevel(opts.Level)

	var out zapcore.WriteSyncer = zapcore.Lock(os.Stderr)
	var file *os.File
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		file = f
		out = zapcore.AddSync(f)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if opts.JSON {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	size := opts.Buffer
	if size <= 0 {
		size = DefaultBuffer
	}
	lines := NewLines(size)

	core := zapcore.NewTee(
		zapcore.NewCore(enc, out, level),
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig()), zapcore.AddSync(lines), level),
	)
	return &Logger{Logger: zap.New(core), lines: lines, file: file}, nil
}

// NewNop returns a logger that only keeps console lines. Used by tests and headless tools.
func NewNop() *Logger {
	lines := NewLines(DefaultBuffer)
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig()), zapcore.AddSync(lines), zapcore.DebugLevel)
	return &Logger{Logger: zap.New(core), lines: lines}
}

// consoleEncoderConfig is the compact format shown in the terminal overlay.
func consoleEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         "level",
		MessageKey:       "msg",
		EncodeTime:       zapcore.TimeEncoderOfLayout("15:04:05"),
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
}

// ParseLevel maps a config level name to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Log records a console line (typed input echoed back) at info level.
func (l *Logger) Log(line string) {
	l.Info(line)
}

// Lines returns a copy of the buffered console lines, oldest first.
func (l *Logger) Lines() []string {
	return l.lines.Snapshot()
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	_ = l.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Lines is a bounded buffer of log lines. It is an io.Writer for a zap core; each write
// may hold several newline-terminated lines.
type Lines struct {
	mu    sync.Mutex
	max   int
	lines []string
}

// NewLines returns a buffer keeping at most max lines.
func NewLines(max int) *Lines {
	return &Lines{max: max}
}

func (b *Lines) Write(p []byte) (int, error) {
	text := strings.TrimRight(string(p), "\n")
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, line := range strings.Split(text, "\n") {
		b.lines = append(b.lines, line)
	}
	if over := len(b.lines) - b.max; over > 0 {
		b.lines = append(b.lines[:0:0], b.lines[over:]...)
	}
	return len(p), nil
}

// Snapshot returns a copy of the buffered lines.
func (b *Lines) Snapshot() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}
