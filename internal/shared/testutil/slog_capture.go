// Package testutil provides test helpers shared across packages.
package testutil

import (
	"context"
	"log/slog"
	"sync"
)

// CapturedRecord is one captured log record.
type CapturedRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// LogCapture is a slog.Handler that stores records for assertions.
type LogCapture struct {
	mu      sync.Mutex
	records []CapturedRecord
}

// NewLogCapture creates a capture handler and a logger writing to it.
func NewLogCapture() (*LogCapture, *slog.Logger) {
	capture := &LogCapture{}
	return capture, slog.New(capture)
}

// Handle implements slog.Handler.
func (c *LogCapture) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any)
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, CapturedRecord{
		Level:   r.Level,
		Message: r.Message,
		Attrs:   attrs,
	})
	return nil
}

// Enabled implements slog.Handler; every level is captured.
func (c *LogCapture) Enabled(context.Context, slog.Level) bool { return true }

// WithAttrs implements slog.Handler. Grouped attrs are not needed for
// assertions, so the same handler is returned.
func (c *LogCapture) WithAttrs([]slog.Attr) slog.Handler { return c }

// WithGroup implements slog.Handler.
func (c *LogCapture) WithGroup(string) slog.Handler { return c }

// Records returns a copy of everything captured so far.
func (c *LogCapture) Records() []CapturedRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CapturedRecord, len(c.records))
	copy(out, c.records)
	return out
}

// HasMessage reports whether any record was logged at the level with
// exactly this message.
func (c *LogCapture) HasMessage(level slog.Level, message string) bool {
	for _, r := range c.Records() {
		if r.Level == level && r.Message == message {
			return true
		}
	}
	return false
}
