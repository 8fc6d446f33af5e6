package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Level orders log messages by severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config level name to a Level. Unknown names map to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

type Logger struct {
	level Level
	out   *log.Logger
	file  io.Closer
}

// New creates a logger writing to w.
func New(w io.Writer, level Level) *Logger {
	return &Logger{
		level: level,
		out:   log.New(w, "", log.LstdFlags),
	}
}

// Open creates a logger from config values. An empty path logs to stderr.
func Open(path, level string) (*Logger, error) {
	if path == "" {
		return New(os.Stderr, ParseLevel(level)), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	l := New(f, ParseLevel(level))
	l.file = f
	return l, nil
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, LevelError+1)
}

func (l *Logger) logf(level Level, s string, as ...interface{}) {
	if level < l.level {
		return
	}
	l.out.Printf("[%s] %s", level, fmt.Sprintf(s, as...))
}

func (l *Logger) Debugf(s string, as ...interface{}) {
	l.logf(LevelDebug, s, as...)
}

func (l *Logger) Printf(s string, as ...interface{}) {
	l.logf(LevelInfo, s, as...)
}

func (l *Logger) Warnf(s string, as ...interface{}) {
	l.logf(LevelWarn, s, as...)
}

func (l *Logger) PrintError(source string, err error) {
	l.logf(LevelError, "Error(%s) -> %s", source, err.Error())
}

// Close closes the underlying log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Recorder keeps every line in memory. Used by tests.
type Recorder struct {
	mu    sync.Mutex
	Lines []string
}

func (r *Recorder) add(prefix, s string, as ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Lines = append(r.Lines, prefix+fmt.Sprintf(s, as...))
}

func (r *Recorder) Debugf(s string, as ...interface{}) { r.add("debug: ", s, as...) }
func (r *Recorder) Printf(s string, as ...interface{}) { r.add("info: ", s, as...) }
func (r *Recorder) Warnf(s string, as ...interface{})  { r.add("warn: ", s, as...) }
func (r *Recorder) PrintError(source string, err error) {
	r.add("error: ", "%s: %v", source, err)
}

// Snapshot returns a copy of the recorded lines.
func (r *Recorder) Snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.Lines...)
}
