package log

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// pathKeys contains attribute keys whose string values are filesystem
// paths worth shortening.
var pathKeys = map[string]bool{
	"path":   true,
	"image":  true,
	"file":   true,
	"output": true,
}

// PathHandler wraps an slog.Handler to shorten path-valued attributes.
// It intercepts log records and replaces absolute paths with their
// basename before passing them to the underlying handler.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Call sites keep logging full paths; shortening stays a display concern
type PathHandler struct {
	// handler is the underlying slog handler that receives shortened records.
	handler slog.Handler
}

// NewPathHandler creates a new PathHandler wrapping the given handler.
// If handler is nil, the returned PathHandler will use slog.Default().Handler().
func NewPathHandler(handler slog.Handler) *PathHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &PathHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *PathHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle shortens the record's path attributes and passes it to the
// underlying handler.
func (h *PathHandler) Handle(ctx context.Context, r slog.Record) error {
	shortened := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		shortened.AddAttrs(h.shortenAttr(a))
		return true
	})

	return h.handler.Handle(ctx, shortened)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are shortened before being added.
func (h *PathHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	shortenedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		shortenedAttrs[i] = h.shortenAttr(a)
	}
	return &PathHandler{handler: h.handler.WithAttrs(shortenedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *PathHandler) WithGroup(name string) slog.Handler {
	return &PathHandler{handler: h.handler.WithGroup(name)}
}

// shortenAttr shortens a single attribute, recursively handling groups.
func (h *PathHandler) shortenAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		shortenedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			shortenedAttrs[i] = h.shortenAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(shortenedAttrs...)}
	}

	if !pathKeys[strings.ToLower(a.Key)] {
		return a
	}
	if a.Value.Kind() != slog.KindString {
		return a
	}

	v := a.Value.String()
	if !strings.ContainsRune(v, filepath.Separator) {
		return a
	}
	return slog.String(a.Key, filepath.Base(v))
}

// NewLogger creates a logger writing text records to w.
// When verbose is false, debug records are suppressed and path attributes
// are shortened to basenames. When verbose is true, full paths and debug
// records are kept.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	var handler slog.Handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	if !verbose {
		handler = NewPathHandler(handler)
	}
	return slog.New(handler)
}
