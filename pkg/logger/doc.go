// Package logger builds configured slog.Logger instances with JSON or text
// output and shared attribute helpers (Error, UserID, Component) so log
// records stay consistent across the application.
package logger
