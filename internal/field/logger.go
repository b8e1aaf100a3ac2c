package field

import (
	"context"
	"log/slog"
)

// nopHandler drops every record; Enabled reports false so callers skip formatting.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var discard = slog.New(nopHandler{})

// Discard returns a logger that writes nothing.
func Discard() *slog.Logger { return discard }

// OrDiscard returns l, or a silent logger when l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return discard
	}
	return l
}
