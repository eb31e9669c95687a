// Package logging provides the service-wide structured logger and the
// operation-scoped error wrapper used across the analysis flow.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the production JSON logger. LOG_LEVEL (debug, info,
// warn, error) overrides the default info level.
func NewLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.InitialFields = map[string]interface{}{"service": "face-insight"}

	if level := strings.TrimSpace(os.Getenv("LOG_LEVEL")); level != "" {
		var parsed zapcore.Level
		if err := parsed.Set(level); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(parsed)
		}
	}

	return cfg.Build()
}

// WithOperation enriches the logger with operation and request identifiers
// so every log line of one analysis can be correlated.
func WithOperation(logger *zap.Logger, operation, requestID string) *zap.Logger {
	fields := []zap.Field{zap.String("operation", operation)}
	if requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	return logger.With(fields...)
}
