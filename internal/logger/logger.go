package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	return NewWithLevel(w, log.InfoLevel)
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that appends to a file
func NewFileLogger(path string, level log.Level) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		f.Close()
	}

	return NewWithLevel(f, level), cleanup, nil
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// ParseLevel maps a level name to a log level. An empty name is warn.
func ParseLevel(name string) (log.Level, error) {
	if name == "" {
		return log.WarnLevel, nil
	}
	return log.ParseLevel(name)
}

// PackageDetected logs the variant found for a package
func (l *Logger) PackageDetected(path, format string) {
	l.Debug("package detected",
		"path", path,
		"format", format)
}

// PackageDecoded logs a successfully decoded package
func (l *Logger) PackageDecoded(path string, sheets, topics int) {
	l.Info("package decoded",
		"path", path,
		"sheets", sheets,
		"topics", topics)
}

// PackageWritten logs a package written to disk
func (l *Logger) PackageWritten(path, format string) {
	l.Info("package written",
		"path", path,
		"format", format)
}

// OutlineParsed logs the result of parsing outline text
func (l *Logger) OutlineParsed(path string, sheets int) {
	l.Debug("outline parsed",
		"path", path,
		"sheets", sheets)
}

// MemorySaved logs text recorded in the session memory
func (l *Logger) MemorySaved(session, pkg, memPath string) {
	l.Debug("memory saved",
		"session", session,
		"package", pkg,
		"memory_file", memPath)
}

// MemoryError logs a failed memory operation. Memory is advisory, so
// these never fail a conversion.
func (l *Logger) MemoryError(operation string, err error) {
	l.Warn("memory error",
		"operation", operation,
		"error", err)
}

// ConversionError logs a conversion error
func (l *Logger) ConversionError(source, dest string, err error) {
	l.Error("conversion failed",
		"source", source,
		"dest", dest,
		"error", err)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(path, memoryDir string) {
	l.Debug("config loaded",
		"path", path,
		"memory_dir", memoryDir)
}

// WatchEvent logs a file system event seen by the watcher
func (l *Logger) WatchEvent(path, op string) {
	l.Debug("watch event",
		"path", path,
		"op", op)
}
