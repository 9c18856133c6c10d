package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// BaseHandler provides common formatting logic for all handlers
type BaseHandler struct {
	level slog.Level
	mu    *sync.Mutex
}

// Enabled reports whether the handler handles records at the given level
func (h *BaseHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// CallbackHandler is a slog.Handler that forwards log records to a callback function
type CallbackHandler struct {
	BaseHandler
	callback CallbackFunc
	attrs    []slog.Attr
}

// NewCallbackHandler creates a new slog handler that forwards logs to a callback
func NewCallbackHandler(callback CallbackFunc, level slog.Level) *CallbackHandler {
	return &CallbackHandler{
		BaseHandler: BaseHandler{level: level, mu: &sync.Mutex{}},
		callback:    callback,
	}
}

// Handle handles the Record by forwarding to the callback
func (h *CallbackHandler) Handle(_ context.Context, record slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.callback == nil {
		return nil
	}
	if len(h.attrs) > 0 {
		record = record.Clone()
		record.AddAttrs(h.attrs...)
	}
	h.callback(record)
	return nil
}

// WithAttrs returns a new Handler whose attributes consist of both the receiver's attributes and the arguments
func (h *CallbackHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &CallbackHandler{
		BaseHandler: h.BaseHandler,
		callback:    h.callback,
		attrs:       merged,
	}
}

// WithGroup returns the handler unchanged; groups are not rendered
func (h *CallbackHandler) WithGroup(name string) slog.Handler {
	return h
}

// Handler is a slog.Handler for compact console output
type Handler struct {
	BaseHandler
	output io.Writer
	attrs  []slog.Attr
}

// NewHandler creates a new handler for formatted output
func NewHandler(output io.Writer, level slog.Level) *Handler {
	return &Handler{
		BaseHandler: BaseHandler{level: level, mu: &sync.Mutex{}},
		output:      output,
	}
}

// Handle processes the Record and outputs formatted log
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var b strings.Builder
	b.WriteString(levelPrefix(r.Level))
	b.WriteString(r.Message)
	for _, a := range h.attrs {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value.Any())
	}
	b.WriteString(formatAttrs(r))
	b.WriteByte('\n')

	_, err := io.WriteString(h.output, b.String())
	return err
}

// WithAttrs returns a new Handler with the given attributes
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &Handler{
		BaseHandler: h.BaseHandler,
		output:      h.output,
		attrs:       merged,
	}
}

// WithGroup returns the handler unchanged; groups are not rendered
func (h *Handler) WithGroup(name string) slog.Handler {
	return h
}

func levelPrefix(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "[ERROR] "
	case level >= slog.LevelWarn:
		return "[WARN] "
	case level >= slog.LevelInfo:
		return "" // No prefix for INFO
	default:
		return "[DEBUG] "
	}
}

func formatAttrs(r slog.Record) string {
	var b strings.Builder
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == slog.TimeKey {
			return true
		}
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value.Any())
		return true
	})
	return b.String()
}
