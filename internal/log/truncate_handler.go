package log

import (
	"context"
	"io"
	"log/slog"
)

// MaxAttrLen is the maximum length of a logged string attribute value.
// Longer values are cut and marked with the TruncationMark suffix.
const MaxAttrLen = 256

// TruncationMark is appended to attribute values that were cut.
const TruncationMark = "...[truncated]"

// TruncateHandler wraps an slog.Handler and caps oversized string
// attribute values before they reach the underlying handler.
//
// Design decision: We use a handler wrapper rather than trimming at each
// call site because:
//  1. It integrates with standard slog APIs; callers log naturally
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. One missed call site cannot flood the log
type TruncateHandler struct {
	// handler is the underlying slog handler that receives capped records.
	handler slog.Handler
}

// NewTruncateHandler creates a TruncateHandler wrapping the given handler.
// If handler is nil, slog.Default()'s handler is wrapped.
func NewTruncateHandler(handler slog.Handler) *TruncateHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &TruncateHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *TruncateHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle caps the record's attributes and passes it on.
func (h *TruncateHandler) Handle(ctx context.Context, r slog.Record) error {
	capped := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		capped.AddAttrs(truncateAttr(a))
		return true
	})
	return h.handler.Handle(ctx, capped)
}

// WithAttrs returns a new TruncateHandler whose underlying handler has the
// given (capped) attributes.
func (h *TruncateHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	capped := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		capped[i] = truncateAttr(a)
	}
	return &TruncateHandler{handler: h.handler.WithAttrs(capped)}
}

// WithGroup returns a new TruncateHandler with the given group name.
func (h *TruncateHandler) WithGroup(name string) slog.Handler {
	return &TruncateHandler{handler: h.handler.WithGroup(name)}
}

// truncateAttr caps a single attribute. Group attributes are capped
// recursively; non-string values pass through unchanged.
func truncateAttr(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		s := a.Value.String()
		if len(s) > MaxAttrLen {
			return slog.String(a.Key, s[:MaxAttrLen]+TruncationMark)
		}
		return a
	case slog.KindGroup:
		members := a.Value.Group()
		capped := make([]any, 0, len(members))
		for _, m := range members {
			capped = append(capped, truncateAttr(m))
		}
		return slog.Group(a.Key, capped...)
	default:
		return a
	}
}

// NewLogger creates wikigraph's standard logger writing to w. Verbose
// enables debug-level output (per-query cache hit/miss lines); otherwise
// the level is Info.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	text := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewTruncateHandler(text))
}
