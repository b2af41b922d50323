package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// DefaultLogFile is where check-wallpaper appends its log when no path is given
const DefaultLogFile = "/tmp/check_wallpaper.log"

// timestampFormat mirrors the classic "asctime" layout: date, time, milliseconds
const timestampFormat = "2006-01-02 15:04:05,000"

// Level represents the logging level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelQuiet // No output
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARNING",
	LevelError: "ERROR",
}

// String returns the level name as written to the log file
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "QUIET"
}

// Logger handles application logging.
// Terminal output honors the console level; the log file always records
// INFO and above, independent of --verbose/--quiet.
type Logger struct {
	level      Level
	fileLevel  Level
	output     io.Writer
	fileOutput io.WriteCloser
	now        func() time.Time
	mu         sync.Mutex
}

// New creates a logger writing terminal output to w at LevelInfo.
// A nil writer discards terminal output.
func New(w io.Writer) *Logger {
	if w == nil {
		w = io.Discard
	}
	return &Logger{
		level:     LevelInfo,
		fileLevel: LevelInfo,
		output:    w,
		now:       time.Now,
	}
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	l := New(io.Discard)
	l.level = LevelQuiet
	return l
}

// SetLevel sets the terminal logging level
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetVerbose enables debug output
func (l *Logger) SetVerbose(verbose bool) {
	if verbose {
		l.SetLevel(LevelDebug)
	}
}

// SetQuiet disables all output except errors
func (l *Logger) SetQuiet(quiet bool) {
	if quiet {
		l.SetLevel(LevelError)
	}
}

// OpenFile enables logging to path, appending to any existing content
func (l *Logger) OpenFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	l.SetFileOutput(f)
	return nil
}

// SetFileOutput routes file log lines to w, closing any previous file output
func (l *Logger) SetFileOutput(w io.WriteCloser) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fileOutput != nil {
		l.fileOutput.Close()
	}
	l.fileOutput = w
}

// Close closes the log file if open
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fileOutput != nil {
		l.fileOutput.Close()
		l.fileOutput = nil
	}
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)

	if level >= l.level {
		fmt.Fprint(l.output, msg+"\n")
	}

	if l.fileOutput != nil && level >= l.fileLevel {
		timestamp := l.now().Format(timestampFormat)
		fmt.Fprintf(l.fileOutput, "%s %s %s\n", timestamp, level, msg)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}
