package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LogLevel represents the logging level
type LogLevel string

const (
	LevelError LogLevel = "error"
	LevelWarn  LogLevel = "warn"
	LevelInfo  LogLevel = "info"
	LevelDebug LogLevel = "debug"
)

var (
	mu sync.RWMutex

	logger       *slog.Logger
	currentLevel slog.Level
	output       io.Writer = os.Stderr
)

func init() {
	SetLevel(LevelInfo)
}

// SetLevel configures the logging level
func SetLevel(level LogLevel) error {
	var l slog.Level
	switch level {
	case LevelError:
		l = slog.LevelError
	case LevelWarn:
		l = slog.LevelWarn
	case LevelInfo:
		l = slog.LevelInfo
	case LevelDebug:
		l = slog.LevelDebug
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}

	mu.Lock()
	defer mu.Unlock()
	currentLevel = l
	logger = slog.New(NewHandler(output, currentLevel))
	return nil
}

// SetOutput redirects log output. Used by the TUI and by tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	logger = slog.New(NewHandler(output, currentLevel))
}

// SetLogger replaces the package logger entirely
func SetLogger(l *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// ParseLevel converts a string to LogLevel
func ParseLevel(s string) (LogLevel, error) {
	level := LogLevel(strings.ToLower(strings.TrimSpace(s)))
	switch level {
	case LevelError, LevelWarn, LevelInfo, LevelDebug:
		return level, nil
	default:
		return "", fmt.Errorf("invalid log level: %s", s)
	}
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Error logs an error message
func Error(msg string, args ...any) {
	current().Error(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	current().Warn(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	current().Info(msg, args...)
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	current().Debug(msg, args...)
}

// IsDebugEnabled returns true if debug logging is enabled
func IsDebugEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return currentLevel <= slog.LevelDebug
}

// GetCurrentLevel returns the current log level
func GetCurrentLevel() slog.Level {
	mu.RLock()
	defer mu.RUnlock()
	return currentLevel
}
