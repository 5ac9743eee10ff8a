// Package logger builds the process logger: slog text records appended to a log file and
// kept in a bounded in-memory buffer for the on-screen log.
package logger

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultPath is the log file, relative to the working directory.
const DefaultPath = "logs/explore.txt"

// DefaultCapacity is how many lines Lines keeps.
const DefaultCapacity = 200

// Options configures New. An empty Path logs to Extra and the line buffer only.
type Options struct {
	// Level is one of debug, info, warn, error. Anything else means info.
	Level string
	// Path is the log file. Empty disables the file.
	Path string
	// Capacity bounds the in-memory buffer. Zero means DefaultCapacity.
	Capacity int
	// Extra receives a copy of every record, e.g. os.Stderr.
	Extra io.Writer
}

// Logger owns the slog logger and its sinks.
type Logger struct {
	*slog.Logger
	file  *os.File
	lines *ring
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New opens the log file (creating its directory) and returns the logger.
func New(opts Options) (*Logger, error) {
	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	l := &Logger{lines: &ring{max: capacity}}

	writers := []io.Writer{l.lines}
	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.file = f
		writers = append(writers, f)
	}
	if opts.Extra != nil {
		writers = append(writers, opts.Extra)
	}

	l.Logger = slog.New(slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level: ParseLevel(opts.Level),
	}))
	return l, nil
}

// Lines returns a copy of the most recent records, oldest first.
func (l *Logger) Lines() []string {
	return l.lines.snapshot()
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// ring is an io.Writer keeping the last max complete lines.
type ring struct {
	mu      sync.Mutex
	max     int
	lines   []string
	partial []byte
}

func (r *ring) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data := append(r.partial, p...)
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		r.lines = append(r.lines, string(data[:i]))
		data = data[i+1:]
	}
	r.partial = append([]byte(nil), data...)
	if over := len(r.lines) - r.max; over > 0 {
		r.lines = append([]string(nil), r.lines[over:]...)
	}
	return len(p), nil
}

func (r *ring) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}
