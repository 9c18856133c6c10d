package log

import (
	"log/slog"
)

// CallbackFunc is a function that receives log records
type CallbackFunc func(record slog.Record)

// NewCallbackLogger creates a logger that forwards logs to a callback function
func NewCallbackLogger(callback CallbackFunc, minLevel slog.Level) *slog.Logger {
	return slog.New(NewCallbackHandler(callback, minLevel))
}

// NewCallbackLoggerWithAttrs creates a logger with pre-set attributes
func NewCallbackLoggerWithAttrs(callback CallbackFunc, minLevel slog.Level, attrs ...slog.Attr) *slog.Logger {
	return slog.New(NewCallbackHandler(callback, minLevel).WithAttrs(attrs))
}

// FormatRecord renders a record the same way Handler does, without the trailing newline
func FormatRecord(r slog.Record) string {
	return levelPrefix(r.Level) + r.Message + formatAttrs(r)
}
