package logger

import (
	"log/slog"
)

// LogError logs an error message to stderr
func LogError(msg string, args ...interface{}) {
	slog.Error(msg, args...)
}
