// Package logging builds the process-wide zap logger shared by the
// CLI, worker runtime, and dashboard.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production-style zap logger at the given level name
// ("debug", "info", "warn", "error"). An unrecognized level falls
// back to info.
func New(level string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err == nil {
		// parsed successfully, lvl already set
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

// Nop returns a logger that discards everything, used in tests.
func Nop() *zap.Logger {
	return zap.NewNop()
}
