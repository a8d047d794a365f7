package httpserver

import (
	"context"
	"log/slog"
)

// discardHandler drops every record. Used when no logger is supplied.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func newNoopLogger() *slog.Logger {
	return slog.New(discardHandler{})
}
