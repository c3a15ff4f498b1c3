package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

// LogRecord is one captured log event, flattened for assertions. Group
// attributes appear under dotted keys ("paths.raw") and integers carry
// slog's int64 normalization.
type LogRecord struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// BufferedSlogHandler is a slog.Handler that keeps every record in memory so
// tests can assert on structured pipeline events instead of scraping text.
// Handlers derived through Logger.With or WithGroup share the parent's
// buffer, so attributes bound up front (run_id on the pipeline logger) show
// up on captured records alongside call-site attributes.
type BufferedSlogHandler struct {
	sink  *recordSink
	bound []slog.Attr
	scope string
}

// recordSink is the buffer shared by a handler and all handlers derived
// from it.
type recordSink struct {
	mu      sync.Mutex
	records []LogRecord
	t       *testing.T
}

func (s *recordSink) append(rec LogRecord) {
	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()

	// Echo to the test log so failed assertions read next to the events
	// that preceded them.
	if s.t != nil {
		s.t.Logf("captured %s %q %v", rec.Level, rec.Message, rec.Attrs)
	}
}

// NewBufferedSlogHandler creates a capturing handler. Records are echoed to
// t's log as they arrive.
func NewBufferedSlogHandler(t *testing.T) *BufferedSlogHandler {
	return &BufferedSlogHandler{sink: &recordSink{t: t}}
}

// NewTestLogger returns a logger wired to a fresh buffered handler.
func NewTestLogger(t *testing.T) (*slog.Logger, *BufferedSlogHandler) {
	handler := NewBufferedSlogHandler(t)
	return slog.New(handler), handler
}

// Enabled reports true for every level; filtering is the test's job.
func (h *BufferedSlogHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle flattens the record's attributes together with any bound via
// WithAttrs into a plain map and appends the result to the shared buffer.
func (h *BufferedSlogHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.bound)+r.NumAttrs())
	for _, a := range h.bound {
		// Bound attrs were scoped when they were attached.
		flattenAttr(attrs, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		flattenAttr(attrs, h.scope, a)
		return true
	})

	h.sink.append(LogRecord{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
		Attrs:   attrs,
	})
	return nil
}

// WithAttrs returns a derived handler whose attributes surface on every
// subsequent record. The record buffer stays shared with the parent.
func (h *BufferedSlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	child := *h
	child.bound = make([]slog.Attr, 0, len(h.bound)+len(attrs))
	child.bound = append(child.bound, h.bound...)
	for _, a := range attrs {
		a.Key = scopedKey(h.scope, a.Key)
		child.bound = append(child.bound, a)
	}
	return &child
}

// WithGroup returns a derived handler that prefixes later attribute keys
// with the group name, dot separated, the way the JSON handler nests them.
func (h *BufferedSlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	child := *h
	child.scope = scopedKey(h.scope, name)
	return &child
}

func flattenAttr(dst map[string]any, scope string, a slog.Attr) {
	key := scopedKey(scope, a.Key)
	if a.Value.Kind() == slog.KindGroup {
		for _, nested := range a.Value.Group() {
			flattenAttr(dst, key, nested)
		}
		return
	}
	dst[key] = a.Value.Resolve().Any()
}

func scopedKey(scope, key string) string {
	if scope == "" {
		return key
	}
	return scope + "." + key
}

// GetRecords returns a copy of every captured record in arrival order.
func (h *BufferedSlogHandler) GetRecords() []LogRecord {
	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()

	out := make([]LogRecord, len(h.sink.records))
	copy(out, h.sink.records)
	return out
}

// GetRecordsByLevel returns the captured records at exactly the given level.
func (h *BufferedSlogHandler) GetRecordsByLevel(level slog.Level) []LogRecord {
	var out []LogRecord
	for _, rec := range h.GetRecords() {
		if rec.Level == level {
			out = append(out, rec)
		}
	}
	return out
}

// ContainsMessage reports whether any captured message contains the
// substring.
func (h *BufferedSlogHandler) ContainsMessage(message string) bool {
	for _, rec := range h.GetRecords() {
		if strings.Contains(rec.Message, message) {
			return true
		}
	}
	return false
}

// ContainsAttr reports whether any captured record carries the attribute
// with exactly the given value.
func (h *BufferedSlogHandler) ContainsAttr(key string, value any) bool {
	for _, rec := range h.GetRecords() {
		if got, ok := rec.Attrs[key]; ok && got == value {
			return true
		}
	}
	return false
}

// Clear drops all captured records.
func (h *BufferedSlogHandler) Clear() {
	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()
	h.sink.records = h.sink.records[:0]
}

// Count returns how many records have been captured so far.
func (h *BufferedSlogHandler) Count() int {
	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()
	return len(h.sink.records)
}

// AssertLogContains fails the test unless a record at the given level has a
// message containing the substring.
func AssertLogContains(t *testing.T, handler *BufferedSlogHandler, level slog.Level, message string) {
	t.Helper()

	for _, rec := range handler.GetRecordsByLevel(level) {
		if strings.Contains(rec.Message, message) {
			return
		}
	}
	t.Errorf("no %s log containing %q", level, message)
	for _, rec := range handler.GetRecordsByLevel(level) {
		t.Logf("  %s had: %s", level, rec.Message)
	}
}

// AssertLogAttr fails the test unless some captured record carries the
// attribute with exactly the expected value. On failure it prints near
// misses with their dynamic types, since slog stores int attributes as
// int64.
func AssertLogAttr(t *testing.T, handler *BufferedSlogHandler, key string, want any) {
	t.Helper()

	if handler.ContainsAttr(key, want) {
		return
	}
	t.Errorf("no log record with %s=%v", key, want)
	for _, rec := range handler.GetRecords() {
		if got, ok := rec.Attrs[key]; ok {
			t.Logf("  %q had %s=%v (%T)", rec.Message, key, got, got)
		}
	}
}

// AssertNoErrors fails the test if any error-level records were captured.
func AssertNoErrors(t *testing.T, handler *BufferedSlogHandler) {
	t.Helper()

	for _, rec := range handler.GetRecordsByLevel(slog.LevelError) {
		t.Errorf("unexpected error log: %s %v", rec.Message, rec.Attrs)
	}
}
